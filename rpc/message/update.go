package message

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dSearch/rpc/common"
	"github.com/ValentinKolb/dSearch/rpc/stream"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
)

// UpdateResponse acknowledges an update of a single document.
// BulkStatus is only set when the response is part of a bulk reply and is not
// carried by the binary form.
type UpdateResponse struct {
	Header
	Index      string
	Type       string
	ID         string
	Version    int64
	Created    bool
	GetResult  *GetResult
	BulkStatus RestStatus
}

// NewUpdateResponse creates a response for the given document coordinates
func NewUpdateResponse(index, docType, id string, version int64, created bool) *UpdateResponse {
	return &UpdateResponse{
		Index:   index,
		Type:    docType,
		ID:      id,
		Version: version,
		Created: created,
	}
}

// HasBulkStatus reports whether a bulk status was set
func (r *UpdateResponse) HasBulkStatus() bool {
	return r.BulkStatus.IsSet()
}

func (r *UpdateResponse) Name() string {
	return UpdateResponseName
}

// --------------------------------------------------------------------------
// Stream Methods (docu see stream.Streamable)
// --------------------------------------------------------------------------

// WriteStream writes
// [header][shared index][shared type][id][long version][bool created][bool get present][get result]
func (r *UpdateResponse) WriteStream(out *stream.Output) error {
	r.Header.writeStream(out)
	out.WriteSharedString(r.Index)
	out.WriteSharedString(r.Type)
	out.WriteString(r.ID)
	out.WriteLong(r.Version)
	out.WriteBool(r.Created)
	return out.WriteOptional(r.GetResult != nil, r.GetResult)
}

func (r *UpdateResponse) ReadStream(in *stream.Input) error {
	var err error
	if err = r.Header.readStream(in); err != nil {
		return err
	}
	if r.Index, err = in.ReadSharedString("_index"); err != nil {
		return err
	}
	if r.Type, err = in.ReadSharedString("_type"); err != nil {
		return err
	}
	if r.ID, err = in.ReadString("_id"); err != nil {
		return err
	}
	if r.Version, err = in.ReadLong("_version"); err != nil {
		return err
	}
	if r.Created, err = in.ReadBool("created"); err != nil {
		return err
	}

	r.GetResult = nil
	_, err = in.ReadOptional("get", func() error {
		r.GetResult = &GetResult{}
		return r.GetResult.ReadStream(in)
	})
	return err
}

// --------------------------------------------------------------------------
// Text Methods
// --------------------------------------------------------------------------

var updateResponseFields = xcontent.NewRegistry(
	xcontent.TextField("_index", func(r *UpdateResponse, v string) { r.Index = v }),
	xcontent.TextField("_type", func(r *UpdateResponse, v string) { r.Type = v }),
	xcontent.TextField("_id", func(r *UpdateResponse, v string) { r.ID = v }),
	xcontent.IntField("_version", func(r *UpdateResponse, v int64) { r.Version = v }),
	xcontent.Field[UpdateResponse]{Name: "status", Apply: func(c xcontent.Cursor, r *UpdateResponse) error {
		code, err := c.Int()
		if err != nil {
			return err
		}
		status, err := RestStatusFromCode(code)
		if err != nil {
			return &common.FieldError{Field: c.Field(), Expected: "status code in [100, 599]", Actual: fmt.Sprint(code)}
		}
		r.BulkStatus = status
		return nil
	}},
	xcontent.BoolField("created", func(r *UpdateResponse, v bool) { r.Created = v }),
	xcontent.Field[UpdateResponse]{Name: "get", Apply: func(c xcontent.Cursor, r *UpdateResponse) error {
		if _, err := c.Object(); err != nil {
			return err
		}
		r.GetResult = &GetResult{}
		return xcontent.PopulateNested(c, getResultFields, r.GetResult)
	}},
)

// ParseXContent populates the response from the server's reply body.
// Fields not present in data keep their zero value.
func (r *UpdateResponse) ParseXContent(data []byte, opts ...xcontent.Option) error {
	*r = UpdateResponse{Header: r.Header}
	return xcontent.Populate(data, updateResponseFields, r, opts...)
}

type updateResponseJSON struct {
	Index   string     `json:"_index"`
	Type    string     `json:"_type"`
	ID      string     `json:"_id"`
	Version int64      `json:"_version"`
	Status  int        `json:"status,omitempty"`
	Created bool       `json:"created"`
	Get     *GetResult `json:"get,omitempty"`
}

func (r *UpdateResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(updateResponseJSON{
		Index:   r.Index,
		Type:    r.Type,
		ID:      r.ID,
		Version: r.Version,
		Status:  r.BulkStatus.Code(),
		Created: r.Created,
		Get:     r.GetResult,
	})
}

func (r *UpdateResponse) UnmarshalJSON(data []byte) error {
	return r.ParseXContent(data)
}
