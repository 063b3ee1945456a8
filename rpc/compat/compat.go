package compat

import (
	"bytes"
	_ "embed"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
	"github.com/ValentinKolb/dSearch/rpc/serializer"
	"github.com/lni/dragonboat/v4/logger"
)

// Logger is the logger of the compat package
var Logger = logger.GetLogger("compat")

//go:embed vectors.toml
var defaultVectors []byte

// Vector is one golden wire sample: a message in text form and the bytes it
// must encode to for one version
type Vector struct {
	Name    string `toml:"name"`
	Message string `toml:"message"`
	Version string `toml:"version"`
	Text    string `toml:"text"`
	Hex     string `toml:"hex"`
}

// Corpus is a list of vectors as stored in a TOML file ([[vector]] tables)
type Corpus struct {
	Vectors []Vector `toml:"vector"`
}

// Result is the outcome of verifying one vector. Err is nil if the vector holds.
type Result struct {
	Vector Vector
	Err    error
}

// Load parses a corpus from TOML. Unknown keys are rejected.
func Load(data []byte) (*Corpus, error) {
	var corpus Corpus
	meta, err := toml.Decode(string(data), &corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vectors: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in vectors: %v", undecoded)
	}

	seen := make(map[string]struct{}, len(corpus.Vectors))
	for i, v := range corpus.Vectors {
		if v.Name == "" {
			return nil, fmt.Errorf("vector %d has no name", i)
		}
		if _, ok := seen[v.Name]; ok {
			return nil, fmt.Errorf("duplicate vector %s", v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return &corpus, nil
}

// Default returns the corpus shipped with the package
func Default() *Corpus {
	corpus, err := Load(defaultVectors)
	if err != nil {
		Logger.Panicf("embedded vectors are invalid: %v", err)
	}
	return corpus
}

// Verify checks every vector of the corpus
func (c *Corpus) Verify() []Result {
	results := make([]Result, 0, len(c.Vectors))
	for _, v := range c.Vectors {
		err := Verify(v)
		if err != nil {
			Logger.Warningf("vector %s failed: %v", v.Name, err)
		} else {
			Logger.Debugf("vector %s ok", v.Name)
		}
		results = append(results, Result{Vector: v, Err: err})
	}
	return results
}

// Verify checks a vector in both directions:
//   - the text parsed (strict) and encoded for the version yields the expected bytes
//   - the expected bytes decoded for the version and encoded again yield the same bytes
func Verify(v Vector) error {
	version, err := common.ParseVersion(v.Version)
	if err != nil {
		return err
	}
	expected, err := hex.DecodeString(strings.Join(strings.Fields(v.Hex), ""))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}

	binary := serializer.NewBinarySerializer()
	text := serializer.NewJSONSerializer(true)

	// text -> binary
	msg, err := message.New(v.Message)
	if err != nil {
		return err
	}
	if err := text.Deserialize([]byte(v.Text), version, msg); err != nil {
		return fmt.Errorf("failed to parse text: %w", err)
	}
	encoded, err := binary.Serialize(msg, version)
	if err != nil {
		return fmt.Errorf("failed to encode text form: %w", err)
	}
	if !bytes.Equal(encoded, expected) {
		return fmt.Errorf("encoding mismatch at %s: expected %x, got %x", version, expected, encoded)
	}

	// binary -> message -> binary
	decoded, _ := message.New(v.Message)
	if err := binary.Deserialize(expected, version, decoded); err != nil {
		return fmt.Errorf("failed to decode bytes: %w", err)
	}
	reencoded, err := binary.Serialize(decoded, version)
	if err != nil {
		return fmt.Errorf("failed to encode decoded message: %w", err)
	}
	if !bytes.Equal(reencoded, expected) {
		return fmt.Errorf("re-encoding mismatch at %s: expected %x, got %x", version, expected, reencoded)
	}
	return nil
}
