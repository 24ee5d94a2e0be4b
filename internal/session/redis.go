package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// legacyPrefix is the keyspace an earlier release used. Those keys had no
// TTL, so sessions outlived the tab. Every write purges its legacy
// counterparts; once all old keys have aged out the purge can go away.
const legacyPrefix = "khaddar"

// RedisStore keeps sessions in Redis under sess:<sid>:<field> with a TTL
// standing in for the tab lifetime.
type RedisStore struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisStore{client: client, baseTTL: ttl}
}

func sessionKey(sid, field string) string {
	return fmt.Sprintf("sess:%s:%s", sid, field)
}

func legacyKey(sid, field string) string {
	return fmt.Sprintf("%s:%s:%s", legacyPrefix, sid, field)
}

// ttl adds jitter so a burst of logins does not expire in one spike.
func (s *RedisStore) ttl() time.Duration {
	return s.baseTTL + time.Duration(rand.Intn(120))*time.Second
}

// write persists fields in one transaction. Empty values delete the key, and
// the matching legacy keys are always deleted.
func (s *RedisStore) write(ctx context.Context, sid string, fields map[string]string) error {
	ttl := s.ttl()
	pipe := s.client.TxPipeline()
	for field, value := range fields {
		if value == "" {
			pipe.Del(ctx, sessionKey(sid, field))
		} else {
			pipe.Set(ctx, sessionKey(sid, field), value, ttl)
		}
		pipe.Del(ctx, legacyKey(sid, field))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session write failed: %w", err)
	}
	return nil
}

// read returns "" for absent keys.
func (s *RedisStore) read(ctx context.Context, sid, field string) (string, error) {
	val, err := s.client.Get(ctx, sessionKey(sid, field)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session read failed: %w", err)
	}
	return val, nil
}

func (s *RedisStore) SetAuth(ctx context.Context, sid string, auth domain.Session) error {
	fields := map[string]string{
		FieldToken:   auth.AuthToken,
		FieldRefresh: auth.RefreshToken,
		FieldUser:    marshalUser(auth.User),
		FieldEmail:   userEmail(auth.User),
	}
	return s.write(ctx, sid, fields)
}

func (s *RedisStore) Auth(ctx context.Context, sid string) (domain.Session, error) {
	token, err := s.read(ctx, sid, FieldToken)
	if err != nil {
		return domain.Session{}, err
	}
	refresh, err := s.read(ctx, sid, FieldRefresh)
	if err != nil {
		return domain.Session{}, err
	}
	rawUser, err := s.read(ctx, sid, FieldUser)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{
		AuthToken:    token,
		RefreshToken: refresh,
		User:         unmarshalUser(rawUser),
	}, nil
}

func (s *RedisStore) Email(ctx context.Context, sid string) (string, error) {
	return s.read(ctx, sid, FieldEmail)
}

func (s *RedisStore) SetAdminAuth(ctx context.Context, sid string, auth domain.Session) error {
	fields := map[string]string{
		FieldAdminToken: auth.AuthToken,
		FieldAdminUser:  marshalUser(auth.User),
	}
	return s.write(ctx, sid, fields)
}

func (s *RedisStore) AdminAuth(ctx context.Context, sid string) (domain.Session, error) {
	token, err := s.read(ctx, sid, FieldAdminToken)
	if err != nil {
		return domain.Session{}, err
	}
	rawUser, err := s.read(ctx, sid, FieldAdminUser)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{AuthToken: token, User: unmarshalUser(rawUser)}, nil
}

func (s *RedisStore) SetCart(ctx context.Context, sid string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return s.write(ctx, sid, map[string]string{FieldCart: string(data)})
}

func (s *RedisStore) Cart(ctx context.Context, sid string) (domain.Cart, error) {
	raw, err := s.read(ctx, sid, FieldCart)
	if err != nil {
		return domain.Cart{}, err
	}
	if raw == "" {
		return domain.Cart{}, nil
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// corrupt blob reads as an empty cart
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *RedisStore) ClearCart(ctx context.Context, sid string) error {
	return s.write(ctx, sid, map[string]string{FieldCart: ""})
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	pipe := s.client.TxPipeline()
	for _, field := range allFields {
		pipe.Del(ctx, sessionKey(sid, field))
		pipe.Del(ctx, legacyKey(sid, field))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session clear failed: %w", err)
	}
	return nil
}

func marshalUser(u *domain.User) string {
	if u == nil {
		return ""
	}
	data, err := json.Marshal(u)
	if err != nil {
		return ""
	}
	return string(data)
}

func unmarshalUser(raw string) *domain.User {
	if raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

func userEmail(u *domain.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
