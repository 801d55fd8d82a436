package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Token    string        `env:"TELEGRAM_TOKEN,required,notEmpty"`
	Users    []string      `env:"ALLOWED_USERS" envSeparator:","`
	IDs      []int64       `env:"ALLOWED_IDS"`
	Budget   int           `env:"BUDGET" envDefault:"2048"`
	Temp     float64       `env:"TEMPERATURE"`
	Debug    bool          `env:"DEBUG"`
	TTL      time.Duration `env:"CACHE_TTL"`
	Greeting string        `env:"GREETING"`
	NoTag    string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	s := &sample{
		Token:    "123:abc",
		Users:    []string{"alice", "bob"},
		IDs:      []int64{1, 2},
		Temp:     0.66,
		Debug:    true,
		TTL:      10 * time.Minute,
		Greeting: "Hello there",
		NoTag:    "ignored",
		hidden:   "ignored",
	}

	out, err := MarshalEnv(s)
	require.NoError(t, err)

	assert.Equal(t, "TELEGRAM_TOKEN=123:abc\n"+
		"ALLOWED_USERS=alice,bob\n"+
		"ALLOWED_IDS=1,2\n"+
		"TEMPERATURE=0.66\n"+
		"DEBUG=true\n"+
		"CACHE_TTL=10m0s\n"+
		"GREETING=\"Hello there\"\n", out)
}

func TestMarshalEnv_Empty(t *testing.T) {
	out, err := MarshalEnv(&sample{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMarshalEnv_NotPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)
}
