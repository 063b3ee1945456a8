package message

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/stream"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
)

// operationThreading is the byte peers before 1.2.0 expect after the header.
// It once selected a threading model; the value is fixed and never read.
var operationThreading = stream.LegacyByte{
	Name:  "operation_threading",
	Until: common.V1_2_0,
	Value: 2,
}

// --------------------------------------------------------------------------
// Scroll
// --------------------------------------------------------------------------

// Scroll holds how long the server keeps a scroll cursor alive between requests
type Scroll struct {
	KeepAlive *TimeValue
}

// NewScroll creates a scroll with the given keep-alive
func NewScroll(keepAlive TimeValue) *Scroll {
	return &Scroll{KeepAlive: &keepAlive}
}

func (s *Scroll) WriteStream(out *stream.Output) error {
	return out.WriteOptional(s.KeepAlive != nil, s.KeepAlive)
}

func (s *Scroll) ReadStream(in *stream.Input) error {
	s.KeepAlive = nil
	_, err := in.ReadOptional("keep_alive", func() error {
		s.KeepAlive = new(TimeValue)
		return s.KeepAlive.ReadStream(in)
	})
	return err
}

// --------------------------------------------------------------------------
// Scroll Request
// --------------------------------------------------------------------------

// ScrollRequest asks the server for the next batch of a scrolled search.
// ScrollID is the opaque handle returned by the previous batch.
type ScrollRequest struct {
	Header
	ScrollID string
	Scroll   *Scroll
}

// NewScrollRequest creates a request for the given scroll handle
func NewScrollRequest(scrollID string) *ScrollRequest {
	return &ScrollRequest{ScrollID: scrollID}
}

func (r *ScrollRequest) SetScrollID(scrollID string) *ScrollRequest {
	r.ScrollID = scrollID
	return r
}

func (r *ScrollRequest) SetScroll(scroll *Scroll) *ScrollRequest {
	r.Scroll = scroll
	return r
}

// SetKeepAlive sets how long the scroll cursor should be kept alive
func (r *ScrollRequest) SetKeepAlive(keepAlive TimeValue) *ScrollRequest {
	return r.SetScroll(NewScroll(keepAlive))
}

// SetKeepAliveString parses keepAlive (e.g. "5m") and sets it
func (r *ScrollRequest) SetKeepAliveString(keepAlive string) (*ScrollRequest, error) {
	tv, err := ParseTimeValue(keepAlive)
	if err != nil {
		return r, err
	}
	return r.SetKeepAlive(tv), nil
}

// KeepAlive returns the keep-alive and whether one is set
func (r *ScrollRequest) KeepAlive() (TimeValue, bool) {
	if r.Scroll == nil || r.Scroll.KeepAlive == nil {
		return 0, false
	}
	return *r.Scroll.KeepAlive, true
}

// Validate returns all problems that prevent the request from being sent, or nil
func (r *ScrollRequest) Validate() *common.ValidationError {
	var err *common.ValidationError
	if r.ScrollID == "" {
		err = common.AddValidationError("scroll handle is missing", err)
	}
	return err
}

func (r *ScrollRequest) Name() string {
	return ScrollRequestName
}

// --------------------------------------------------------------------------
// Stream Methods (docu see stream.Streamable)
// --------------------------------------------------------------------------

// WriteStream writes
// [header][operation threading byte if version < 1.2.0][scroll id][bool scroll present][scroll]
func (r *ScrollRequest) WriteStream(out *stream.Output) error {
	if r.ScrollID == "" {
		return fmt.Errorf("%w: scroll handle is missing", common.ErrInvalidState)
	}
	r.Header.writeStream(out)
	if err := operationThreading.Write(out); err != nil {
		return err
	}
	out.WriteString(r.ScrollID)
	return out.WriteOptional(r.Scroll != nil, r.Scroll)
}

func (r *ScrollRequest) ReadStream(in *stream.Input) error {
	var err error
	if err = r.Header.readStream(in); err != nil {
		return err
	}
	if err = operationThreading.Read(in); err != nil {
		return err
	}
	if r.ScrollID, err = in.ReadString("scroll_id"); err != nil {
		return err
	}

	r.Scroll = nil
	_, err = in.ReadOptional("scroll", func() error {
		r.Scroll = &Scroll{}
		return r.Scroll.ReadStream(in)
	})
	return err
}

// --------------------------------------------------------------------------
// Text Methods
// --------------------------------------------------------------------------

var scrollRequestFields = xcontent.NewRegistry(
	xcontent.TextField("scroll_id", func(r *ScrollRequest, v string) { r.ScrollID = v }),
	xcontent.Field[ScrollRequest]{Name: "scroll", Apply: func(c xcontent.Cursor, r *ScrollRequest) error {
		text, err := c.Text()
		if err != nil {
			return err
		}
		tv, err := ParseTimeValue(text)
		if err != nil {
			return &common.FieldError{Field: c.Field(), Expected: "time value", Actual: fmt.Sprintf("%q", text)}
		}
		r.SetKeepAlive(tv)
		return nil
	}},
)

// ParseXContent populates the request from its body form {"scroll_id": "...", "scroll": "5m"}
func (r *ScrollRequest) ParseXContent(data []byte, opts ...xcontent.Option) error {
	*r = ScrollRequest{Header: r.Header}
	return xcontent.Populate(data, scrollRequestFields, r, opts...)
}

type scrollRequestJSON struct {
	ScrollID string `json:"scroll_id"`
	Scroll   string `json:"scroll,omitempty"`
}

// MarshalJSON fails with common.ErrInvalidState if the scroll id is not set
func (r *ScrollRequest) MarshalJSON() ([]byte, error) {
	if r.ScrollID == "" {
		return nil, fmt.Errorf("%w: scroll handle is missing", common.ErrInvalidState)
	}
	body := scrollRequestJSON{ScrollID: r.ScrollID}
	if keepAlive, ok := r.KeepAlive(); ok {
		body.Scroll = keepAlive.String()
	}
	return json.Marshal(body)
}

func (r *ScrollRequest) UnmarshalJSON(data []byte) error {
	return r.ParseXContent(data)
}

// --------------------------------------------------------------------------
// REST Methods (docu see transport.Request)
// --------------------------------------------------------------------------

func (r *ScrollRequest) Endpoint() string {
	return "_search/scroll"
}

func (r *ScrollRequest) Method() string {
	return http.MethodGet
}

// Params contains "scroll" (the canonical keep-alive) if a keep-alive is set
func (r *ScrollRequest) Params() map[string]string {
	params := make(map[string]string)
	if keepAlive, ok := r.KeepAlive(); ok {
		params["scroll"] = keepAlive.String()
	}
	return params
}

// Entity is the scroll handle, verbatim
func (r *ScrollRequest) Entity() []byte {
	return []byte(r.ScrollID)
}
