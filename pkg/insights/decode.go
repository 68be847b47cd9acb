package insights

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
)

// StdinPath is the pseudo-path that makes LoadFile read standard input.
const StdinPath = "-"

// DefaultMaxPayloadSize caps how much input Decode will read (32MB).
const DefaultMaxPayloadSize = 32 << 20

// ErrPayloadTooLarge is returned when the input exceeds the size cap.
var ErrPayloadTooLarge = errors.New("insights payload too large")

// DecodeOptions configures Decode.
type DecodeOptions struct {
	// MaxSize caps the number of bytes read. 0 means DefaultMaxPayloadSize.
	MaxSize int64
}

// envelope is the recommender API response. Only ai_insights matters here;
// recommendations is probed so an envelope without insights is recognised.
type envelope struct {
	Recommendations json.RawMessage `json:"recommendations"`
	AIInsights      json.RawMessage `json:"ai_insights"`
	Analysis        json.RawMessage `json:"analysis"`
}

// Decode reads an insights payload from r.
//
// Two shapes are accepted: a bare insights object ({"analysis": [...]}) and
// the recommender API envelope ({"recommendations": [...], "ai_insights":
// {...}}). A literal JSON null yields a nil result and no error: no data
// has been produced yet. An envelope without ai_insights yields an empty,
// non-nil result: upstream answered but had nothing to analyse.
func Decode(r io.Reader) (*Result, error) {
	return DecodeWithOptions(r, DecodeOptions{})
}

// DecodeWithOptions is Decode with a custom size cap.
func DecodeWithOptions(r io.Reader, opts DecodeOptions) (*Result, error) {
	limit := opts.MaxSize
	if limit <= 0 {
		limit = DefaultMaxPayloadSize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading insights: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPayloadTooLarge, limit)
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory payload. See Decode for accepted shapes.
func DecodeBytes(data []byte) (*Result, error) {
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return nil, fmt.Errorf("parsing insights: empty input")
	}
	if isNull(data) {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parsing insights: %w", err)
	}

	payload := data
	if env.Analysis == nil && (env.AIInsights != nil || env.Recommendations != nil) {
		if env.AIInsights == nil || isNull(env.AIInsights) {
			return &Result{}, nil
		}
		payload = env.AIInsights
	}

	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("parsing insights: %w", err)
	}
	return &res, nil
}

// LoadFile reads an insights payload from path, or from stdin when path
// is StdinPath.
func LoadFile(path string) (*Result, error) {
	if path == StdinPath {
		return Decode(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no insights found at %s", path)
		}
		return nil, fmt.Errorf("failed to open insights file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

// Encode writes res as indented JSON.
func Encode(w io.Writer, res *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
