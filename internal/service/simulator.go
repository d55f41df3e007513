package service

import (
	"context"
	"math"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// ----------- Simulation constants -----------
const (
	SoilRisePerSec      = 0.5  // % per second while pumping
	SoilDryPerSec       = 0.02 // % per second evaporation
	HotDryMultiplier    = 2.0  // evaporation multiplier above hotTemperatureC
	BaseTempC           = 27.0 // daily mean °C
	TempSwingC          = 7.0  // half of the diurnal range
	BaseHumidity        = 60.0 // daily mean %
	HumiditySwing       = 20.0
	ApproachFraction    = 0.1 // share of the gap closed per tick
	InitialSoilPercent  = 45.0
	RainHumidityPercent = 85.0
	soilRawDry          = 4095 // ADC reading of bone-dry soil
)

// DeviceStore is the device-side view of the store.
type DeviceStore interface {
	ReadRelay(ctx context.Context) (models.RelayState, error)
	SubscribeRelay(ctx context.Context) (<-chan models.RelayState, error)
	ReadTimerSeconds(ctx context.Context) (int, error)
	WriteTimerSeconds(ctx context.Context, seconds int) error
	ReadAutoControl(ctx context.Context) (bool, error)
	ReadSchedule(ctx context.Context) (*models.Schedule, error)
	WriteSensors(ctx context.Context, s models.SensorState) error
}

// deviceState is the emulated field controller.
type deviceState struct {
	relay       models.RelayState
	lastCommand models.RelayState
	timerUntil  time.Time
	auto        bool

	soil     float64
	temp     float64
	humidity float64
	light    float64
	lastTick time.Time
}

// SimulatorService emulates the irrigation controller against the local
// store: it reacts to relay edges only, honours timed runs, follows the
// schedule in auto mode and publishes a sensor snapshot every tick.
type SimulatorService struct {
	store DeviceStore
	log   *logger.Logger
	st    deviceState
}

func NewSimulatorService(store DeviceStore, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		store: store,
		log:   log,
		st: deviceState{
			relay:       models.RelayOff,
			lastCommand: models.RelayOff,
			soil:        InitialSoilPercent,
			temp:        BaseTempC,
			humidity:    BaseHumidity,
		},
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	// the stored value at boot is the baseline, not an edge
	if current, err := s.store.ReadRelay(ctx); err == nil {
		s.st.lastCommand = current
		s.st.relay = current
	}

	relay, err := s.store.SubscribeRelay(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("simulator_subscribe_failed", "err", err)
		}
		return
	}

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-relay:
			if !ok {
				return
			}
			s.onCommand(ctx, v, time.Now())
		case now := <-t.C:
			s.step(ctx, now)
		}
	}
}

// onCommand applies a stored relay value. Only a change of value is an edge.
func (s *SimulatorService) onCommand(ctx context.Context, v models.RelayState, now time.Time) bool {
	if v == s.st.lastCommand {
		return false
	}
	s.st.lastCommand = v
	s.st.relay = v
	s.st.timerUntil = time.Time{}

	if v == models.RelayOn {
		secs, err := s.store.ReadTimerSeconds(ctx)
		if err == nil && secs > 0 {
			s.st.timerUntil = now.Add(time.Duration(secs) * time.Second)
			_ = s.store.WriteTimerSeconds(ctx, 0)
		}
	}
	if s.log != nil {
		s.log.Debugw("simulator_relay_edge", "relay", v, "timer_until", s.st.timerUntil)
	}
	return true
}

// step advances the emulation and publishes a snapshot.
func (s *SimulatorService) step(ctx context.Context, now time.Time) {
	elapsed := 0.0
	if !s.st.lastTick.IsZero() {
		elapsed = now.Sub(s.st.lastTick).Seconds()
	}
	s.st.lastTick = now

	s.followSchedule(ctx, now)
	s.expireTimer(now)
	s.driftEnvironment(now)
	s.updateSoil(elapsed)

	if err := s.store.WriteSensors(ctx, s.snapshot()); err != nil && s.log != nil {
		s.log.Warnw("simulator_publish_failed", "err", err)
	}
}

// followSchedule drives the relay from the stored window while auto mode is on.
func (s *SimulatorService) followSchedule(ctx context.Context, now time.Time) bool {
	auto, err := s.store.ReadAutoControl(ctx)
	if err != nil {
		return false
	}
	s.st.auto = auto
	if !auto {
		return false
	}
	sched, err := s.store.ReadSchedule(ctx)
	if err != nil || sched == nil || !sched.Enabled {
		return false
	}
	want := models.RelayOff
	if sched.Contains(now) {
		want = models.RelayOn
	}
	if want == s.st.relay {
		return false
	}
	s.st.relay = want
	return true
}

// expireTimer switches the pump off once a timed run has elapsed.
func (s *SimulatorService) expireTimer(now time.Time) bool {
	if s.st.timerUntil.IsZero() || now.Before(s.st.timerUntil) {
		return false
	}
	s.st.timerUntil = time.Time{}
	if s.st.relay == models.RelayOff {
		return false
	}
	s.st.relay = models.RelayOff
	return true
}

// driftEnvironment moves temperature, humidity and light toward the values
// expected for the hour of day.
func (s *SimulatorService) driftEnvironment(now time.Time) {
	hour := float64(now.Hour()) + float64(now.Minute())/60
	phase := (hour - 9) / 24 * 2 * math.Pi

	targetTemp := BaseTempC + TempSwingC*math.Sin(phase)
	targetHumidity := BaseHumidity - HumiditySwing*math.Sin(phase)

	s.st.temp += (targetTemp - s.st.temp) * ApproachFraction
	s.st.humidity = clamp(s.st.humidity+(targetHumidity-s.st.humidity)*ApproachFraction, 0, 100)
	s.st.light = clamp(math.Sin((hour-6)/12*math.Pi)*100, 0, 100)
}

// updateSoil raises moisture while pumping and dries it otherwise.
func (s *SimulatorService) updateSoil(elapsed float64) {
	if s.st.relay == models.RelayOn {
		s.st.soil = clamp(s.st.soil+SoilRisePerSec*elapsed, 0, 100)
		return
	}
	rate := SoilDryPerSec
	if s.st.temp > hotTemperatureC {
		rate *= HotDryMultiplier
	}
	s.st.soil = clamp(s.st.soil-rate*elapsed, 0, 100)
}

func (s *SimulatorService) snapshot() models.SensorState {
	rain := "none"
	if s.st.humidity >= RainHumidityPercent {
		rain = "light"
	}
	return models.SensorState{
		Temperature:  models.Float(round1(s.st.temp)),
		Humidity:     models.Float(round1(s.st.humidity)),
		SoilPercent:  models.Float(round1(s.st.soil)),
		SoilRaw:      models.Int(int(soilRawDry - s.st.soil/100*soilRawDry)),
		LightPercent: models.Float(round1(s.st.light)),
		Rain:         models.String(rain),
		RelayRaw:     string(s.st.relay),
		AutoEnabled:  models.Bool(s.st.auto),
	}
}

// helpers
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
