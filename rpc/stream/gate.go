package stream

import "github.com/ValentinKolb/dSearch/rpc/common"

// LegacyByte is a placeholder byte that peers older than Until still write and
// expect. The byte carries no information for current code, it only keeps the
// layout aligned for old decoders.
//
// Write and Read evaluate the same predicate (version < Until), so the byte is
// either present on both paths or on neither. Both fail with
// common.ErrUnsupportedVersion for versions outside the supported range, since
// the layout of those is unknown.
type LegacyByte struct {
	Name  string
	Until common.Version
	Value byte
}

// Applies reports whether the byte is on the wire for version
func (g LegacyByte) Applies(version common.Version) bool {
	return version.Before(g.Until)
}

// Write emits the placeholder if the output version requires it
func (g LegacyByte) Write(out *Output) error {
	if err := common.CheckVersion(out.Version()); err != nil {
		return err
	}
	if g.Applies(out.Version()) {
		out.WriteUint8(g.Value)
	}
	return nil
}

// Read consumes and discards the placeholder if the input version carries it
func (g LegacyByte) Read(in *Input) error {
	if err := common.CheckVersion(in.Version()); err != nil {
		return err
	}
	if !g.Applies(in.Version()) {
		return nil
	}
	_, err := in.ReadUint8(g.Name)
	return err
}
