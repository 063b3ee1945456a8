package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/message"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":         func() IRPCSerializer { return NewJSONSerializer(false) },
	"Binary":       NewBinarySerializer,
	"Instrumented": func() IRPCSerializer { return NewInstrumentedSerializer(NewBinarySerializer()) },
}

var testVersions = []common.Version{common.V1_0_0, common.V1_1_0, common.V1_2_0, common.V1_3_0, common.V1_4_0}

// testMessages creates a set of test messages with different fields filled.
// None of them carries headers since those are not part of the text form.
func testMessages() []message.Message {
	withGet := message.NewUpdateResponse("books", "doc", "42", 7, false)
	withGet.GetResult = &message.GetResult{
		Index:   "books",
		Type:    "doc",
		ID:      "42",
		Version: 7,
		Exists:  true,
		Source:  json.RawMessage(`{"title":"Dune"}`),
		Fields:  map[string][]string{"tags": {"scifi"}},
	}

	return []message.Message{
		// Scroll request without keep-alive
		message.NewScrollRequest("abc123"),

		// Scroll request with keep-alive
		message.NewScrollRequest("c2Nhbjs1OzE6").SetKeepAlive(message.TimeValue(5 * time.Minute)),

		// Plain update response
		message.NewUpdateResponse("idx", "t", "1", 3, true),

		// Update response with nested get result
		withGet,
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for _, version := range testVersions {
				for i, msg := range testMessages() {
					// Serialize
					data, err := serializer.Serialize(msg, version)
					if err != nil {
						t.Errorf("Failed to serialize message %d at %s: %v", i, version, err)
						continue
					}

					// Deserialize
					result, _ := message.New(msg.Name())
					err = serializer.Deserialize(data, version, result)
					if err != nil {
						t.Errorf("Failed to deserialize message %d at %s: %v", i, version, err)
						continue
					}

					// Compare
					if !reflect.DeepEqual(msg, result) {
						t.Errorf("Message %d doesn't match after round trip at %s:\nOriginal: %+v\nResult: %+v",
							i, version, msg, result)
					}
				}
			}
		})
	}
}

// TestUnsupportedVersion tests that every serializer rejects unknown versions
func TestUnsupportedVersion(t *testing.T) {
	versions := []common.Version{common.NewVersion(0, 9, 0), common.NewVersion(2, 0, 0)}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()
			for _, version := range versions {
				if _, err := serializer.Serialize(message.NewScrollRequest("abc"), version); !errors.Is(err, common.ErrUnsupportedVersion) {
					t.Errorf("Serialize at %s: expected ErrUnsupportedVersion, got %v", version, err)
				}
				err := serializer.Deserialize([]byte("{}"), version, &message.ScrollRequest{})
				if !errors.Is(err, common.ErrUnsupportedVersion) {
					t.Errorf("Deserialize at %s: expected ErrUnsupportedVersion, got %v", version, err)
				}
			}
		})
	}
}

// TestMissingScrollHandle tests that no serializer encodes a request without a scroll id
func TestMissingScrollHandle(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			for _, version := range testVersions {
				data, err := factory().Serialize(message.NewScrollRequest(""), version)
				if !errors.Is(err, common.ErrInvalidState) {
					t.Errorf("Serialize at %s: expected ErrInvalidState, got %x, %v", version, data, err)
				}
			}
		})
	}
}

// TestBinaryVersionGate tests that the legacy byte is only written for old peers
func TestBinaryVersionGate(t *testing.T) {
	serializer := NewBinarySerializer()
	req := message.NewScrollRequest("abc123")

	old, err := serializer.Serialize(req, common.V1_1_0)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}
	current, err := serializer.Serialize(req, common.V1_2_0)
	if err != nil {
		t.Fatalf("Failed to serialize: %v", err)
	}

	if len(old)-len(current) != 1 {
		t.Errorf("Expected one extra byte for 1.1.0, got %x vs %x", old, current)
	}
}

// TestInvalidBinaryData tests how the binary serializer handles corrupt or invalid data
func TestInvalidBinaryData(t *testing.T) {
	serializer := NewBinarySerializer()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Empty data",
			data:        []byte{},
			expectError: true,
		},
		{
			name:        "Valid request",
			data:        []byte{0, 3, 'a', 'b', 'c', 0},
			expectError: false,
		},
		{
			name:        "Invalid length for scroll id",
			data:        []byte{0, 5, 'a', 'b', 'c'}, // Claims length 5 but only 3 bytes provided
			expectError: true,
		},
		{
			name:        "Invalid boolean",
			data:        []byte{0, 3, 'a', 'b', 'c', 7},
			expectError: true,
		},
		{
			name:        "Trailing bytes",
			data:        []byte{0, 3, 'a', 'b', 'c', 0, 0},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req message.ScrollRequest
			err := serializer.Deserialize(tc.data, common.Current, &req)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
			if err != nil && !errors.Is(err, common.ErrMalformedStream) {
				t.Errorf("Expected ErrMalformedStream, got %v", err)
			}
		})
	}
}

// TestJSONStrictness tests that the json serializer honors the strict flag
func TestJSONStrictness(t *testing.T) {
	body := []byte(`{"_id": "1", "_version": "x", "created": "maybe"}`)

	var lenient message.UpdateResponse
	err := NewJSONSerializer(false).Deserialize(body, common.Current, &lenient)
	if !errors.Is(err, common.ErrFieldTypeMismatch) {
		t.Fatalf("Expected ErrFieldTypeMismatch, got %v", err)
	}
	if lenient.ID != "1" {
		t.Errorf("Expected lenient parsing to apply _id, got %+v", lenient)
	}

	var strict message.UpdateResponse
	err = NewJSONSerializer(true).Deserialize(body, common.Current, &strict)
	var fieldErr *common.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "_version" {
		t.Errorf("Expected strict parsing to stop at _version, got %v", err)
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{FormatBinary, FormatJSON} {
		s, err := New(format, false)
		if err != nil || s.Format() != format {
			t.Errorf("New(%s): got %v, %v", format, s, err)
		}
	}
	if _, err := New("gob", false); err == nil {
		t.Error("Expected error for unknown serializer")
	}
}

// --------------------------------------------------------------------------
// Instrumentation
// --------------------------------------------------------------------------

func TestInstrumentedSerializer(t *testing.T) {
	s := NewInstrumentedSerializer(NewBinarySerializer())

	for i := 0; i < 3; i++ {
		if _, err := s.Serialize(message.NewScrollRequest("abc"), common.Current); err != nil {
			t.Fatalf("Failed to serialize: %v", err)
		}
	}
	if _, err := s.Serialize(message.NewScrollRequest(""), common.Current); err == nil {
		t.Fatal("Expected error for missing scroll handle")
	}
	if err := s.Deserialize([]byte{1}, common.Current, &message.UpdateResponse{}); err == nil {
		t.Fatal("Expected error for truncated data")
	}

	if got := s.Calls("serialize", message.ScrollRequestName); got != 4 {
		t.Errorf("Expected 4 serialize calls, got %d", got)
	}
	if got := s.Errors("serialize", message.ScrollRequestName); got != 1 {
		t.Errorf("Expected 1 serialize error, got %d", got)
	}
	if got := s.Errors("deserialize", message.UpdateResponseName); got != 1 {
		t.Errorf("Expected 1 deserialize error, got %d", got)
	}
	if got := s.Calls("deserialize", message.ScrollRequestName); got != 0 {
		t.Errorf("Expected no deserialize calls, got %d", got)
	}

	var buf bytes.Buffer
	s.WritePrometheus(&buf)
	expected := `dsearch_serializer_calls_total{op="serialize",format="binary",message="search_scroll_request"} 4`
	if !strings.Contains(buf.String(), expected) {
		t.Errorf("Expected %q in metrics output:\n%s", expected, buf.String())
	}
}

// --------------------------------------------------------------------------
// Framing
// --------------------------------------------------------------------------

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payloads := [][]byte{[]byte("first"), {}, bytes.Repeat([]byte{0xab}, 1024)}

	for _, p := range payloads {
		if err := WriteFrame(&buf, common.V1_1_0, p); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}

	for i, p := range payloads {
		version, data, err := ReadFrame(&buf, nil)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if version != common.V1_1_0 {
			t.Errorf("Frame %d: expected version %s, got %s", i, common.V1_1_0, version)
		}
		if !bytes.Equal(data, p) {
			t.Errorf("Frame %d: payload mismatch", i)
		}
	}

	if _, _, err := ReadFrame(&buf, nil); err != io.EOF {
		t.Errorf("Expected io.EOF after last frame, got %v", err)
	}
}

func TestFrameInvalid(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected error
	}{
		{"unknown version", []byte{0, 0, 0, 1, 0, 0, 0, 0}, common.ErrUnsupportedVersion},
		{"payload too large", append(versionBytes(common.Current), 0xff, 0xff, 0xff, 0xff), common.ErrMalformedStream},
		{"truncated payload", append(versionBytes(common.Current), 0, 0, 0, 4, 'a'), common.ErrMalformedStream},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ReadFrame(bytes.NewReader(tc.data), nil)
			if !errors.Is(err, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func versionBytes(v common.Version) []byte {
	id := v.ID()
	return []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
}
