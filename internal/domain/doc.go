// Package domain implements the crop advisory decision rules.
//
// # Pipeline
//
// The decision pipeline runs in a fixed order on every location or sensor
// change: location validation gates everything else, the forecast normalizer
// produces a weather snapshot, the climate selector maps the snapshot to a
// base crop set, the sensor adjuster mutates it, and the agrochemical
// resolver attaches fertilizer/pesticide guidance. All stages are pure
// functions; I/O (geocoding, forecast fetch, sensor transport) lives in the
// adapters.
//
// # Location validation
//
// A reverse-geocoded place is a legitimate agricultural site when both hold:
//
//  1. Its structured address carries at least one settlement tag
//     (city, town, village, or hamlet).
//  2. Its display name contains none of the restricted keywords, a closed
//     list of tokens denoting institutional, commercial, transit, and
//     financial land use. Matching is case-insensitive and substring based,
//     so "Hospital Road" is restricted even with a city tag present.
//
// Validation is fail-closed: a failed or empty geocode lookup always yields
// an invalid location named "Unknown Location", never a silent acceptance.
// An invalid location forces an empty crop set and no weather snapshot.
//
// # Climate rule table
//
// Crop selection is a decision list, not a classifier: rules are evaluated
// top to bottom and the first satisfied rule's crop list is returned
// verbatim. Ranges overlap on purpose; rule order is the tie-break.
//
//	temp 10-25°C, humidity ≥60%, rain ≥80mm   → Wheat, Barley, Peas
//	temp 20-35°C, humidity ≥50%, rain ≥100mm  → Rice, Sugarcane, Jute
//	temp 25-40°C, humidity ≥30%, rain ≤50mm   → Cotton, Millets, Sorghum
//	temp 15-30°C, humidity ≥40%, rain ≥60mm   → Maize, Soybean, Groundnut
//	temp 18-28°C, humidity ≥50%, rain ≥70mm   → Mustard, Chickpea, Lentil
//	otherwise                                 → General Vegetables, Pulses, Fruits
//
// # Sensor adjustment
//
// Four independent transformations, applied in a fixed order on top of the
// base set. Soil pH of 0 means the probe is absent or unset and the pH
// steps are skipped.
//
//	soil moisture <20%   → add Millets, Sorghum, Cotton
//	soil pH set and <6   → add Rice, Jute
//	soil pH >7.5         → add Barley, Cotton
//	wind speed >20 m/s   → remove Sugarcane
//
// The wind removal observes the unioned state of the earlier steps, so it
// can remove a crop a prior step just added. Set semantics guarantee no
// duplicate membership; insertion order is preserved for deterministic
// downstream output.
//
// # Agrochemical lookup
//
// A static table keyed by exact crop name maps each selected crop to
// fertilizer and pesticide lists. A crop absent from the table receives the
// balanced-NPK / general-protector fallback; a missing mapping is the
// defined default path, never an error.
//
// # ID generation
//
// Advisory IDs are deterministic SHA-256 hashes of the location and sensor
// inputs, so replaying identical inputs produces identical IDs. See
// [generateAdvisoryID].
package domain
