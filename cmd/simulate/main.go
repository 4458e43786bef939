package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/unan-salud/salud-al-paso/internal/config"
	"github.com/unan-salud/salud-al-paso/internal/records"
	"github.com/unan-salud/salud-al-paso/internal/remote"
)

type SimConfig struct {
	Origin      string
	Duration    time.Duration
	Workers     int
	CreateRatio float64
	UpdateRatio float64
	DeleteRatio float64
	ListRatio   float64
}

// idPool tracks appointment ids created during the run.
type idPool struct {
	mu  sync.RWMutex
	ids []string
}

func (p *idPool) add(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ids = append(p.ids, id)
}

func (p *idPool) random(rng *rand.Rand) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.ids) == 0 {
		return "", false
	}
	return p.ids[rng.Intn(len(p.ids))], true
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, err error) {
	atomic.AddInt64(&om.Total, 1)
	var se *remote.StatusError
	switch {
	case err == nil:
		atomic.AddInt64(&om.Success, 1)
	case errors.As(err, &se) && (se.Code == http.StatusConflict || se.NotFound()):
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	i := n * p / 100
	if i >= n {
		i = n - 1
	}
	return i
}

type Metrics struct {
	Create            OperationMetrics
	Update            OperationMetrics
	Delete            OperationMetrics
	ListAppointments  OperationMetrics
	ListConsultations OperationMetrics
}

type Simulator struct {
	config        SimConfig
	pool          idPool
	appointments  *remote.Collection[records.Appointment, records.AppointmentDraft]
	consultations *remote.Collection[records.Consultation, records.ConsultationDraft]
	metrics       Metrics
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: origin=%s duration=%s workers=%d create=%.2f update=%.2f delete=%.2f list=%.2f",
		cfg.Origin, cfg.Duration, cfg.Workers, cfg.CreateRatio, cfg.UpdateRatio, cfg.DeleteRatio, cfg.ListRatio)

	client := remote.NewClient(cfg.Origin, 10*time.Second)
	sim := &Simulator{
		config:        cfg,
		appointments:  remote.NewCollection[records.Appointment, records.AppointmentDraft](client, "appointments"),
		consultations: remote.NewCollection[records.Consultation, records.ConsultationDraft](client, "consultations"),
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		Origin:      getEnv("SIM_BACKEND_ORIGIN", baseCfg.BackendOrigin),
		Duration:    getDuration("SIM_DURATION", 30*time.Second),
		Workers:     getInt("SIM_WORKERS", 10),
		CreateRatio: getFloat("SIM_CREATE_RATIO", 0.4),
		UpdateRatio: getFloat("SIM_UPDATE_RATIO", 0.2),
		DeleteRatio: getFloat("SIM_DELETE_RATIO", 0.1),
		ListRatio:   getFloat("SIM_LIST_RATIO", 0.3),
	}

	total := cfg.CreateRatio + cfg.UpdateRatio + cfg.DeleteRatio + cfg.ListRatio
	if total > 0 {
		cfg.CreateRatio /= total
		cfg.UpdateRatio /= total
		cfg.DeleteRatio /= total
		cfg.ListRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers", s.config.Duration, s.config.Workers)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
	faker := gofakeit.New(uint64(time.Now().UnixNano()) + uint64(workerID))

	for ctx.Err() == nil {
		r := rng.Float64()
		switch {
		case r < s.config.CreateRatio:
			s.doCreate(ctx, faker)
		case r < s.config.CreateRatio+s.config.UpdateRatio:
			s.doUpdate(ctx, rng, faker)
		case r < s.config.CreateRatio+s.config.UpdateRatio+s.config.DeleteRatio:
			s.doDelete(ctx, rng)
		default:
			if rng.Intn(2) == 0 {
				s.doListAppointments(ctx)
			} else {
				s.doListConsultations(ctx)
			}
		}
	}
}

func fakeDraft(f *gofakeit.Faker) records.AppointmentDraft {
	return records.AppointmentDraft{
		PatientName:     f.Name(),
		PatientPhone:    f.Phone(),
		DoctorName:      "Dr. " + f.LastName(),
		Specialty:       f.RandomString(records.Specialties),
		AppointmentDate: time.Now().AddDate(0, 0, f.Number(1, 90)).Format("2006-01-02"),
		AppointmentTime: f.RandomString(records.TimeSlots),
		Reason:          "Simulación",
	}
}

// record drops results cut short by the end of the run.
func record(ctx context.Context, om *OperationMetrics, latency time.Duration, err error) {
	if err != nil && ctx.Err() != nil {
		return
	}
	om.Record(latency, err)
}

func (s *Simulator) doCreate(ctx context.Context, f *gofakeit.Faker) {
	start := time.Now()
	appt, err := s.appointments.Create(ctx, fakeDraft(f))
	record(ctx, &s.metrics.Create, time.Since(start), err)
	if err == nil {
		s.pool.add(appt.ID)
	}
}

func (s *Simulator) doUpdate(ctx context.Context, rng *rand.Rand, f *gofakeit.Faker) {
	id, ok := s.pool.random(rng)
	if !ok {
		return
	}
	start := time.Now()
	_, err := s.appointments.Update(ctx, id, fakeDraft(f))
	record(ctx, &s.metrics.Update, time.Since(start), err)
}

func (s *Simulator) doDelete(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.random(rng)
	if !ok {
		return
	}
	start := time.Now()
	err := s.appointments.Delete(ctx, id)
	record(ctx, &s.metrics.Delete, time.Since(start), err)
}

func (s *Simulator) doListAppointments(ctx context.Context) {
	start := time.Now()
	_, err := s.appointments.List(ctx)
	record(ctx, &s.metrics.ListAppointments, time.Since(start), err)
}

func (s *Simulator) doListConsultations(ctx context.Context) {
	start := time.Now()
	_, err := s.consultations.List(ctx)
	record(ctx, &s.metrics.ListConsultations, time.Since(start), err)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Println("SIMULATION REPORT")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Origin: %s\n", s.config.Origin)
	fmt.Printf("Duration: %s\n", s.config.Duration)
	fmt.Printf("Workers: %d\n", s.config.Workers)
	fmt.Println()

	printOperationReport("Create appointment", &s.metrics.Create)
	printOperationReport("Update appointment", &s.metrics.Update)
	printOperationReport("Delete appointment", &s.metrics.Delete)
	printOperationReport("List appointments", &s.metrics.ListAppointments)
	printOperationReport("List consultations", &s.metrics.ListConsultations)
}

func printOperationReport(name string, om *OperationMetrics) {
	total := atomic.LoadInt64(&om.Total)
	if total == 0 {
		return
	}

	success := atomic.LoadInt64(&om.Success)
	conflict := atomic.LoadInt64(&om.Conflict)
	failed := atomic.LoadInt64(&om.Error)

	avg, min, max, p50, p95 := om.Stats()

	fmt.Printf("%s:\n", name)
	fmt.Printf("  Total: %d\n", total)
	fmt.Printf("  Success: %d (%.1f%%)\n", success, float64(success)/float64(total)*100)
	if conflict > 0 {
		fmt.Printf("  Conflicts: %d (%.1f%%)\n", conflict, float64(conflict)/float64(total)*100)
	}
	if failed > 0 {
		fmt.Printf("  Errors: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	}
	fmt.Printf("  Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
	fmt.Println()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
