package sim

import (
	"math/rand"

	"cinderhold/server/internal/telemetry"
	"cinderhold/server/logging"
)

// Deps carries shared infrastructure dependencies required by the
// simulation engine. Exactly one engine per process owns each value;
// explicit injection keeps the subsystems free of package globals.
type Deps struct {
	Logger    telemetry.Logger
	Publisher logging.Publisher
	Clock     logging.Clock
	RNG       *rand.Rand
}

func (d Deps) normalized() Deps {
	if d.Logger == nil {
		d.Logger = telemetry.LoggerFunc(func(string, ...any) {})
	}
	if d.Publisher == nil {
		d.Publisher = logging.NopPublisher()
	}
	if d.Clock == nil {
		d.Clock = logging.SystemClock{}
	}
	if d.RNG == nil {
		d.RNG = rand.New(rand.NewSource(1))
	}
	return d
}
