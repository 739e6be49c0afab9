// Command sensorsim publishes simulated field sensor readings, either to
// stdout as JSON lines or directly to the sensor Kafka topic. It is used to
// seed local environments and to drive the advisor pipeline during
// development.
//
// Usage:
//
//	go run ./cmd/sensorsim -count 20 -interval 2s
//	go run ./cmd/sensorsim -brokers localhost:9092 -topic field-sensor-readings -count 100
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/NikhilGolait/KisanMitra/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers; empty writes JSON lines to stdout")
	topic := flag.String("topic", "field-sensor-readings", "sensor topic to publish to")
	count := flag.Int("count", 10, "number of readings to emit")
	interval := flag.Duration("interval", 0, "pause between readings")
	seed := flag.Int64("seed", 0, "random seed; 0 uses the current time")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	var writer *kafkago.Writer
	if *brokers != "" {
		writer = &kafkago.Writer{
			Addr:     kafkago.TCP(strings.Split(*brokers, ",")...),
			Topic:    *topic,
			Balancer: &kafkago.LeastBytes{},
		}
		defer writer.Close()
	}

	ctx := context.Background()
	for i := 0; i < *count; i++ {
		reading := randomReading(rng)
		data, err := json.Marshal(reading)
		if err != nil {
			return fmt.Errorf("marshal reading: %w", err)
		}

		if writer == nil {
			fmt.Fprintln(os.Stdout, string(data))
		} else {
			msg := kafkago.Message{
				Key:   []byte(fmt.Sprintf("sim-%d", i)),
				Value: data,
			}
			if err := writer.WriteMessages(ctx, msg); err != nil {
				return fmt.Errorf("write reading %d: %w", i, err)
			}
		}

		if *interval > 0 && i < *count-1 {
			time.Sleep(*interval)
		}
	}

	log.Printf("emitted %d readings (seed %d)", *count, *seed)
	return nil
}

// randomReading produces values inside the ranges the advisor accepts, with
// occasional extremes that trigger the soil and wind adjustments.
func randomReading(rng *rand.Rand) domain.SensorReadings {
	r := domain.SensorReadings{
		SoilMoisturePct: 10 + rng.Float64()*70,
		SoilPH:          4.5 + rng.Float64()*5,
		WindSpeedMs:     rng.Float64() * 15,
	}
	// One in five readings gets a gust strong enough to drop sugarcane.
	if rng.Intn(5) == 0 {
		r.WindSpeedMs = 21 + rng.Float64()*10
	}
	return r
}
