package domain

// AgrochemicalEntry pairs a crop with its fertilizer and pesticide
// recommendations.
type AgrochemicalEntry struct {
	Crop        string   `json:"crop"`
	Fertilizers []string `json:"fertilizers"`
	Pesticides  []string `json:"pesticides"`
}

// Fallback recommendations for crops missing from the lookup table.
const (
	FallbackFertilizer = "NPK (Balanced Fertilizer)"
	FallbackPesticide  = "General Crop Protector"
)

// agrochemTable maps crop names to recommendations. Keys are exact crop
// names as produced by the climate selector and sensor adjuster.
var agrochemTable = map[string]AgrochemicalEntry{
	"Wheat":     {Fertilizers: []string{"Urea", "DAP"}, Pesticides: []string{"Chlorpyrifos", "Imidacloprid"}},
	"Barley":    {Fertilizers: []string{"Urea", "MOP"}, Pesticides: []string{"Mancozeb"}},
	"Peas":      {Fertilizers: []string{"SSP", "Rhizobium Culture"}, Pesticides: []string{"Dimethoate"}},
	"Rice":      {Fertilizers: []string{"Urea", "Zinc Sulphate"}, Pesticides: []string{"Carbofuran", "Buprofezin"}},
	"Sugarcane": {Fertilizers: []string{"Urea", "Potash"}, Pesticides: []string{"Fipronil"}},
	"Jute":      {Fertilizers: []string{"Urea", "SSP"}, Pesticides: []string{"Neem Oil"}},
	"Cotton":    {Fertilizers: []string{"DAP", "Potash"}, Pesticides: []string{"Acephate", "Imidacloprid"}},
	"Millets":   {Fertilizers: []string{"Farmyard Manure", "Urea"}, Pesticides: []string{"Malathion"}},
	"Sorghum":   {Fertilizers: []string{"Urea", "SSP"}, Pesticides: []string{"Carbaryl"}},
	"Maize":     {Fertilizers: []string{"Urea", "DAP"}, Pesticides: []string{"Atrazine", "Cypermethrin"}},
	"Soybean":   {Fertilizers: []string{"SSP", "Rhizobium Culture"}, Pesticides: []string{"Quinalphos"}},
	"Groundnut": {Fertilizers: []string{"Gypsum", "SSP"}, Pesticides: []string{"Chlorpyrifos"}},
	"Mustard":   {Fertilizers: []string{"Urea", "Sulphur"}, Pesticides: []string{"Oxydemeton-Methyl"}},
	"Chickpea":  {Fertilizers: []string{"DAP", "Rhizobium Culture"}, Pesticides: []string{"Quinalphos"}},
}

// Resolve maps each crop in the set to its agrochemical entry, preserving
// the set's iteration order. Crops absent from the table receive the
// fallback entry; the resolver never fails.
func Resolve(crops CropSet) []AgrochemicalEntry {
	entries := make([]AgrochemicalEntry, 0, crops.Len())
	for _, name := range crops.Names() {
		entry, ok := agrochemTable[name]
		if !ok {
			entry = AgrochemicalEntry{
				Fertilizers: []string{FallbackFertilizer},
				Pesticides:  []string{FallbackPesticide},
			}
		}
		entry.Crop = name
		entries = append(entries, entry)
	}
	return entries
}
