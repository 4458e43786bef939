package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/unan-salud/salud-al-paso/internal/alerts"
	"github.com/unan-salud/salud-al-paso/internal/config"
	redisclient "github.com/unan-salud/salud-al-paso/internal/redis"
)

func main() {
	group := flag.String("group", "alert-listener", "kafka consumer group")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("alert-listener starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.RedisAddr == "" && cfg.KafkaBroker == "" {
		log.Fatal("nothing to listen on: set REDIS_URL/REDIS_ADDR or KAFKA_BROKER")
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := func(source string) func(alerts.Event) {
		return func(ev alerts.Event) {
			log.Printf("source=%s event=%s %s", source, ev.Event, alerts.Summary(ev.Data))
		}
	}

	var wg sync.WaitGroup

	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		defer rdb.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("listening on redis channel=%s", cfg.AlertChannel)
			if err := alerts.ListenRedis(rootCtx, rdb, cfg.AlertChannel, handle("redis")); err != nil && rootCtx.Err() == nil {
				log.Printf("redis listener stopped: %v", err)
			}
		}()
	}

	if cfg.KafkaBroker != "" {
		kl := alerts.NewKafkaListener(cfg.KafkaBroker, cfg.AlertChannel, *group)
		defer kl.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("consuming kafka topic=%s group=%s", cfg.AlertChannel, *group)
			if err := kl.Run(rootCtx, handle("kafka")); err != nil && rootCtx.Err() == nil {
				log.Printf("kafka listener stopped: %v", err)
			}
		}()
	}

	<-rootCtx.Done()
	log.Println("shutdown signal received, stopping alert-listener")
	wg.Wait()
}
