package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/quotedraft/internal/assessment"
)

// DefaultRedisPrefix namespaces every key the Redis backend writes.
const DefaultRedisPrefix = "draft:"

// Redis is a Backend for deployments that share drafts between processes.
//
// Key layout (prefix "draft:"):
//
//	draft:seq                  insertion counter
//	draft:rec:<id>             record JSON
//	draft:all                  zset id -> insertion seq
//	draft:session:<sid>        zset id -> insertion seq
//	draft:updated:manual       zset id -> updatedAt
//	draft:updated:autosave     zset id -> updatedAt
type Redis struct {
	client *redis.Client
	prefix string
}

var _ Backend = (*Redis)(nil)

// OpenRedis connects to the server at url (redis://...) and verifies the
// connection.
func OpenRedis(ctx context.Context, url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedis(client, prefix), nil
}

// NewRedis wraps an existing client. An empty prefix uses DefaultRedisPrefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) recKey(id string) string { return r.prefix + "rec:" + id }
func (r *Redis) sessionKey(sid string) string { return r.prefix + "session:" + sid }
func (r *Redis) allKey() string { return r.prefix + "all" }
func (r *Redis) seqKey() string { return r.prefix + "seq" }
func (r *Redis) updatedKey(manual bool) string {
	if manual {
		return r.prefix + "updated:manual"
	}
	return r.prefix + "updated:autosave"
}

// putScript stores a record and indexes it in one atomic step.
// KEYS: rec, seq, all, session, updated. ARGV: record JSON, id, updatedAt.
// Returns 0 when the id already exists, otherwise the insertion seq.
var putScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
local seq = redis.call('INCR', KEYS[2])
redis.call('SET', KEYS[1], ARGV[1])
redis.call('ZADD', KEYS[3], seq, ARGV[2])
redis.call('ZADD', KEYS[4], seq, ARGV[2])
redis.call('ZADD', KEYS[5], ARGV[3], ARGV[2])
return seq
`)

func (r *Redis) Put(ctx context.Context, rec assessment.Record) error {
	b, err := marshalRecord(rec)
	if err != nil {
		return corrupt("put", err)
	}

	keys := []string{
		r.recKey(rec.ID),
		r.seqKey(),
		r.allKey(),
		r.sessionKey(rec.SessionID),
		r.updatedKey(rec.Metadata.IsManualSave),
	}
	seq, err := putScript.Run(ctx, r.client, keys, b, rec.ID, rec.Metadata.UpdatedAt).Int64()
	if err != nil {
		return unavailable("put", err)
	}
	if seq == 0 {
		return duplicate("put", rec.ID)
	}
	return nil
}

func (r *Redis) LatestForSession(ctx context.Context, sessionID string) (assessment.Record, bool, error) {
	ids, err := r.client.ZRange(ctx, r.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return assessment.Record{}, false, unavailable("latest", err)
	}

	// A record that fails to decode is skipped; the rest of the session
	// still resolves.
	records, err := r.load(ctx, ids)
	if err != nil && !IsCorrupt(err) {
		return assessment.Record{}, false, err
	}
	if err != nil {
		slog.Warn("skipping corrupt draft", "session_id", sessionID, "error", err)
	}

	var (
		best  assessment.Record
		found bool
	)
	for _, rec := range records {
		if !found || later(rec, best) {
			best, found = rec, true
		}
	}
	return best, found, nil
}

func (r *Redis) All(ctx context.Context) ([]assessment.Record, error) {
	ids, err := r.client.ZRange(ctx, r.allKey(), 0, -1).Result()
	if err != nil {
		return nil, unavailable("all", err)
	}
	return r.load(ctx, ids)
}

func (r *Redis) DeleteSession(ctx context.Context, sessionID string) (int, error) {
	ids, err := r.client.ZRange(ctx, r.sessionKey(sessionID), 0, -1).Result()
	if err != nil {
		return 0, unavailable("delete session", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.unindex(ctx, pipe, ids)
		pipe.Del(ctx, r.sessionKey(sessionID))
		return nil
	})
	if err != nil {
		return 0, unavailable("delete session", err)
	}
	return len(ids), nil
}

func (r *Redis) DeleteOlderThan(ctx context.Context, cutoff int64, manual bool) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, r.updatedKey(manual), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff, 10),
	}).Result()
	if err != nil {
		return 0, unavailable("delete older than", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	// Session membership lives in the record itself.
	records, err := r.load(ctx, ids)
	if err != nil && !IsCorrupt(err) {
		return 0, err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.unindex(ctx, pipe, ids)
		for _, rec := range records {
			pipe.ZRem(ctx, r.sessionKey(rec.SessionID), rec.ID)
		}
		return nil
	})
	if err != nil {
		return 0, unavailable("delete older than", err)
	}
	return len(ids), nil
}

func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return unavailable("clear", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// unindex queues removal of ids from the record keys and global indexes.
func (r *Redis) unindex(ctx context.Context, pipe redis.Pipeliner, ids []string) {
	members := make([]any, len(ids))
	keys := make([]string, len(ids))
	for i, id := range ids {
		members[i] = id
		keys[i] = r.recKey(id)
	}
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, r.allKey(), members...)
	pipe.ZRem(ctx, r.updatedKey(true), members...)
	pipe.ZRem(ctx, r.updatedKey(false), members...)
}

// load fetches records by id, preserving order and skipping ids whose
// record key is gone. A record that fails to decode is skipped and
// reported as ErrCodeCorrupt alongside the records that did decode.
func (r *Redis) load(ctx context.Context, ids []string) ([]assessment.Record, error) {
	records := []assessment.Record{}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.recKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("load", err)
	}

	var firstErr error
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := unmarshalRecord([]byte(s))
		if err != nil {
			if firstErr == nil {
				firstErr = corrupt("load "+ids[i], err)
			}
			continue
		}
		records = append(records, rec)
	}
	return records, firstErr
}
