package alerts

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/unan-salud/salud-al-paso/internal/records"
	redisclient "github.com/unan-salud/salud-al-paso/internal/redis"
)

// RedisNotifier publishes alerts on a Redis pub/sub channel.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, r records.EmergencyReport) error {
	payload, err := Encode(r)
	if err != nil {
		return err
	}
	receivers, err := redisclient.Publish(ctx, n.rdb, n.channel, payload)
	if err != nil {
		return err
	}
	if receivers == 0 {
		log.Printf("alert id=%s published on %s with no listeners", r.ID, n.channel)
	}
	return nil
}

// ListenRedis hands every alert on channel to handle until ctx is done.
// Messages that do not decode are logged and skipped.
func ListenRedis(ctx context.Context, rdb *redis.Client, channel string, handle func(Event)) error {
	return redisclient.Subscribe(ctx, rdb, channel, func(payload []byte) {
		ev, err := Decode(payload)
		if err != nil {
			log.Printf("skipping alert on %s: %v", channel, err)
			return
		}
		handle(ev)
	})
}
