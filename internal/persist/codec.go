package persist

import (
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/postforge/internal/post"
)

// CurrentVersion is the envelope version written by Encode.
const CurrentVersion = 1

// Envelope is the stored form of a session.
type Envelope struct {
	Version int        `json:"version"`
	Session string     `json:"session"`
	SavedAt time.Time  `json:"savedAt"`
	State   post.State `json:"state"`
}

// Migration upgrades raw slot data from one envelope version to the next.
type Migration struct {
	From        int
	To          int
	Description string
	Migrate     func(data []byte) ([]byte, error)
}

// Codec encodes and decodes session envelopes.
type Codec struct {
	session    string
	now        func() time.Time
	migrations []Migration
}

// CodecOption configures a Codec.
type CodecOption func(*Codec)

// WithSession fixes the session id instead of generating one.
func WithSession(id string) CodecOption {
	return func(c *Codec) {
		c.session = id
	}
}

// WithClock sets the time source for SavedAt.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCodec creates a codec with a fresh session id and the built-in
// migrations registered.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		session: uuid.NewString(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Register(wrapBareState)
	return c
}

// Session returns the id stamped into encoded envelopes.
func (c *Codec) Session() string {
	return c.session
}

// Register adds a migration. Migrations are applied in From order.
func (c *Codec) Register(m Migration) {
	c.migrations = append(c.migrations, m)
	sort.SliceStable(c.migrations, func(i, j int) bool {
		return c.migrations[i].From < c.migrations[j].From
	})
}

// Encode wraps s in a current-version envelope. States that Decode would
// reject are refused, so every encoded slot restores.
func (c *Codec) Encode(s post.State) ([]byte, error) {
	if err := post.Validate(s); err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	env := Envelope{
		Version: CurrentVersion,
		Session: c.session,
		SavedAt: c.now().UTC().Truncate(time.Second),
		State:   s,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return data, nil
}

// Decode parses slot data, migrating older formats.
//
// Fields missing from the stored state keep their defaults. The decoded
// state is validated; any failure wraps ErrCorrupt.
func (c *Codec) Decode(data []byte) (Envelope, error) {
	if !gjson.ValidBytes(data) {
		return Envelope{}, fmt.Errorf("%w: not valid JSON", ErrCorrupt)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return Envelope{}, fmt.Errorf("%w: expected an object", ErrCorrupt)
	}

	version, err := c.version(root)
	if err != nil {
		return Envelope{}, err
	}
	if version > CurrentVersion {
		return Envelope{}, fmt.Errorf("%w: %d (this build reads up to %d)",
			ErrUnsupportedVersion, version, CurrentVersion)
	}

	data, err = c.migrate(data, version)
	if err != nil {
		return Envelope{}, err
	}

	env := Envelope{State: post.Default()}
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := post.Validate(env.State); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return env, nil
}

// version reads the envelope version; a missing field means version 0.
func (c *Codec) version(root gjson.Result) (int, error) {
	v := root.Get("version")
	if !v.Exists() {
		return 0, nil
	}
	if v.Type != gjson.Number || v.Num != float64(int(v.Num)) || v.Num < 0 {
		return 0, fmt.Errorf("%w: bad version %s", ErrCorrupt, v.Raw)
	}
	return int(v.Num), nil
}

func (c *Codec) migrate(data []byte, from int) ([]byte, error) {
	for _, m := range c.migrations {
		if m.From < from {
			continue
		}
		if m.From != from || m.To > CurrentVersion {
			continue
		}
		out, err := m.Migrate(data)
		if err != nil {
			return nil, fmt.Errorf("%w: migrate %d to %d: %v", ErrCorrupt, m.From, m.To, err)
		}
		data = out
		from = m.To
	}
	if from != CurrentVersion {
		return nil, fmt.Errorf("%w: no migration from version %d", ErrCorrupt, from)
	}
	return data, nil
}

// wrapBareState upgrades a slot holding a bare state object, as written by
// releases before the envelope existed.
var wrapBareState = Migration{
	From:        0,
	To:          1,
	Description: "wrap bare state in a versioned envelope",
	Migrate: func(data []byte) ([]byte, error) {
		out, err := sjson.SetRawBytes([]byte(`{}`), "state", data)
		if err != nil {
			return nil, err
		}
		return sjson.SetBytes(out, "version", 1)
	},
}
