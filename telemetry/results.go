package telemetry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -destination=mocks/results.go -package=mocks -source=results.go ResultSink

// ResultRecord is the two-column final outcome of a run.
type ResultRecord struct {
	Species string `csv:"species" json:"species"`
	Turns   int    `csv:"turns" json:"turns"`
}

// String renders the record as its CSV line without the newline.
func (r ResultRecord) String() string {
	return r.Species + "," + strconv.Itoa(r.Turns)
}

// ResultSink durably records final results.
type ResultSink interface {
	Append(ctx context.Context, rec ResultRecord) error
}

// CSVResultLog appends results to a headerless CSV file, one run per line.
type CSVResultLog struct {
	path string
}

var _ ResultSink = (*CSVResultLog)(nil)

// NewCSVResultLog returns a sink appending to path. The file is created on first use.
func NewCSVResultLog(path string) *CSVResultLog {
	return &CSVResultLog{path: path}
}

// Path returns the log file path.
func (l *CSVResultLog) Path() string {
	return l.path
}

// Append writes one record to the end of the file.
func (l *CSVResultLog) Append(ctx context.Context, rec ResultRecord) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening result log: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing result log: %w", cerr)
		}
	}()

	if err := gocsv.MarshalWithoutHeaders([]ResultRecord{rec}, f); err != nil {
		return fmt.Errorf("writing result log: %w", err)
	}
	return nil
}

// ReadAll reads every record in the log, oldest first.
func (l *CSVResultLog) ReadAll() ([]ResultRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("opening result log: %w", err)
	}
	defer f.Close()

	var recs []ResultRecord
	if err := gocsv.UnmarshalWithoutHeaders(f, &recs); err != nil {
		return nil, fmt.Errorf("reading result log: %w", err)
	}
	return recs, nil
}

// RedisConfig configures the redis result log.
type RedisConfig struct {
	Client redis.UniversalClient
	Key    string
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.New("redis result log: config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.New("redis result log: client cannot be nil")
	}
	if cfg.Key == "" {
		return errors.New("redis result log: key cannot be empty")
	}
	return nil
}

// RedisResultLog pushes results onto a redis list as "species,turns" strings.
type RedisResultLog struct {
	client redis.UniversalClient
	key    string
}

var _ ResultSink = (*RedisResultLog)(nil)

// NewRedisResultLog creates a redis-backed result sink.
func NewRedisResultLog(cfg *RedisConfig) (*RedisResultLog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &RedisResultLog{client: cfg.Client, key: cfg.Key}, nil
}

// Append pushes one record onto the list tail.
func (l *RedisResultLog) Append(ctx context.Context, rec ResultRecord) error {
	if err := l.client.RPush(ctx, l.key, rec.String()).Err(); err != nil {
		return fmt.Errorf("pushing result to %s: %w", l.key, err)
	}
	return nil
}

// History returns every stored result, oldest first.
func (l *RedisResultLog) History(ctx context.Context) ([]ResultRecord, error) {
	raw, err := l.client.LRange(ctx, l.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading results from %s: %w", l.key, err)
	}
	out := make([]ResultRecord, 0, len(raw))
	for _, line := range raw {
		rec, err := ParseResultRecord(line)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ParseResultRecord parses a "species,turns" line.
func ParseResultRecord(line string) (ResultRecord, error) {
	var recs []ResultRecord
	if err := gocsv.UnmarshalWithoutHeaders(strings.NewReader(line), &recs); err != nil {
		return ResultRecord{}, fmt.Errorf("parsing result %q: %w", line, err)
	}
	if len(recs) != 1 {
		return ResultRecord{}, fmt.Errorf("parsing result %q: want one record, got %d", line, len(recs))
	}
	return recs[0], nil
}
