package message

import (
	"encoding/json"
	"sort"

	"github.com/ValentinKolb/dSearch/rpc/stream"
	"github.com/ValentinKolb/dSearch/rpc/xcontent"
)

// GetResult is the document an update returns when it was asked to fetch the
// updated source. Source is only meaningful when Exists is true.
type GetResult struct {
	Index   string
	Type    string
	ID      string
	Version int64
	Exists  bool
	Source  json.RawMessage
	Fields  map[string][]string
}

// --------------------------------------------------------------------------
// Stream Methods (docu see stream.Streamable)
// --------------------------------------------------------------------------

// WriteStream writes
// [shared index][shared type][id][long version][bool exists]
// and if exists [bytes source][vint field count]([name][vint n]([value])*)*
func (g *GetResult) WriteStream(out *stream.Output) error {
	out.WriteSharedString(g.Index)
	out.WriteSharedString(g.Type)
	out.WriteString(g.ID)
	out.WriteLong(g.Version)
	out.WriteBool(g.Exists)
	if !g.Exists {
		return nil
	}

	out.WriteBytesRef(g.Source)

	names := make([]string, 0, len(g.Fields))
	for name := range g.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out.WriteVInt(uint32(len(names)))
	for _, name := range names {
		values := g.Fields[name]
		out.WriteString(name)
		out.WriteVInt(uint32(len(values)))
		for _, v := range values {
			out.WriteString(v)
		}
	}
	return nil
}

func (g *GetResult) ReadStream(in *stream.Input) error {
	var err error
	*g = GetResult{}

	if g.Index, err = in.ReadSharedString("get._index"); err != nil {
		return err
	}
	if g.Type, err = in.ReadSharedString("get._type"); err != nil {
		return err
	}
	if g.ID, err = in.ReadString("get._id"); err != nil {
		return err
	}
	if g.Version, err = in.ReadLong("get._version"); err != nil {
		return err
	}
	if g.Exists, err = in.ReadBool("get.found"); err != nil {
		return err
	}
	if !g.Exists {
		return nil
	}

	if g.Source, err = in.ReadBytesRef("get._source"); err != nil {
		return err
	}

	n, err := in.ReadVInt("get.fields")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		name, err := in.ReadString("get.fields")
		if err != nil {
			return err
		}
		count, err := in.ReadVInt("get.fields." + name)
		if err != nil {
			return err
		}
		values := make([]string, 0, min(int(count), in.Remaining()))
		for j := uint32(0); j < count; j++ {
			v, err := in.ReadString("get.fields." + name)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		if g.Fields == nil {
			g.Fields = make(map[string][]string)
		}
		g.Fields[name] = values
	}
	return nil
}

// --------------------------------------------------------------------------
// Text Methods
// --------------------------------------------------------------------------

var getResultFields = xcontent.NewRegistry(
	xcontent.TextField("_index", func(g *GetResult, v string) { g.Index = v }),
	xcontent.TextField("_type", func(g *GetResult, v string) { g.Type = v }),
	xcontent.TextField("_id", func(g *GetResult, v string) { g.ID = v }),
	xcontent.IntField("_version", func(g *GetResult, v int64) { g.Version = v }),
	xcontent.BoolField("found", func(g *GetResult, v bool) { g.Exists = v }),
	xcontent.Field[GetResult]{Name: "_source", Apply: func(c xcontent.Cursor, g *GetResult) error {
		raw, err := c.Object()
		if err != nil {
			return err
		}
		g.Source = raw
		return nil
	}},
	xcontent.Field[GetResult]{Name: "fields", Apply: func(c xcontent.Cursor, g *GetResult) error {
		fields, err := c.StringSliceMap()
		if err != nil {
			return err
		}
		if len(fields) > 0 {
			g.Fields = fields
		}
		return nil
	}},
)

// ParseXContent populates the result from {"_index": ..., "found": true, "_source": {...}}
func (g *GetResult) ParseXContent(data []byte, opts ...xcontent.Option) error {
	*g = GetResult{}
	return xcontent.Populate(data, getResultFields, g, opts...)
}

type getResultJSON struct {
	Index   string              `json:"_index"`
	Type    string              `json:"_type"`
	ID      string              `json:"_id"`
	Version int64               `json:"_version"`
	Exists  bool                `json:"found"`
	Source  json.RawMessage     `json:"_source,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func (g *GetResult) MarshalJSON() ([]byte, error) {
	body := getResultJSON{
		Index:   g.Index,
		Type:    g.Type,
		ID:      g.ID,
		Version: g.Version,
		Exists:  g.Exists,
	}
	if g.Exists {
		body.Source = g.Source
		body.Fields = g.Fields
	}
	return json.Marshal(body)
}
