package option

import "fmt"

// Option is a typed attribute attached to a stream or encoder. Concrete
// variants implement Kind, Class, equality and rendering; Value returns the
// underlying Go value boxed as any, used by callers that need to compare or
// display it generically (e.g. config template overlay).
type Option interface {
	Kind() Kind
	Class() Class
	Value() any
	// Equal reports whether two options of the same kind carry the same
	// value. Comparing options of different kinds is always false.
	Equal(Option) bool
	// Render produces the argv tokens this option contributes to an ffmpeg
	// command line for the given stream kind and relative index within that
	// kind in the target container. Most options render zero or one flag;
	// Filter renders a composed -vf/-af value from its sub-tokens.
	Render(sk StreamKind, relIndex int) []string
}

// Orderable is implemented by options whose values support a total order
// (used by the extra-track ranking and non-upgrade checks).
type Orderable interface {
	Option
	Less(Option) bool
}

func sameKind(a, b Option) bool { return a.Kind() == b.Kind() }

// --- PixelFormat ---

type PixelFormat struct{ V string }

func (o PixelFormat) Kind() Kind   { return KindPixelFormat }
func (o PixelFormat) Class() Class { return ClassStream }
func (o PixelFormat) Value() any   { return o.V }
func (o PixelFormat) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(string)
}
func (o PixelFormat) Render(StreamKind, int) []string {
	return []string{"-pix_fmt", o.V}
}

// --- Bitrate (kbps) ---

type Bitrate struct{ V int }

func (o Bitrate) Kind() Kind   { return KindBitrate }
func (o Bitrate) Class() Class { return ClassEncoder }
func (o Bitrate) Value() any   { return o.V }
func (o Bitrate) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(int)
}
func (o Bitrate) Less(other Option) bool {
	return o.V < other.Value().(int)
}
func (o Bitrate) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-b:%s:%d", sk, relIndex), fmt.Sprintf("%dk", o.V)}
}

// --- Channels ---

type Channels struct{ V int }

func (o Channels) Kind() Kind   { return KindChannels }
func (o Channels) Class() Class { return ClassEncoder }
func (o Channels) Value() any   { return o.V }
func (o Channels) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(int)
}
func (o Channels) Less(other Option) bool {
	return o.V < other.Value().(int)
}
func (o Channels) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-ac:%d", relIndex), fmt.Sprintf("%d", o.V)}
}

// --- Level (already ×10 scaled to match ffmpeg's "4.0" convention) ---

type Level struct{ V float64 }

func (o Level) Kind() Kind   { return KindLevel }
func (o Level) Class() Class { return ClassEncoder }
func (o Level) Value() any   { return o.V }
func (o Level) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(float64)
}
func (o Level) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-level:%s:%d", sk, relIndex), fmt.Sprintf("%.1f", o.V)}
}

// --- Profile ---

type Profile struct{ V string }

func (o Profile) Kind() Kind   { return KindProfile }
func (o Profile) Class() Class { return ClassEncoder }
func (o Profile) Value() any   { return o.V }
func (o Profile) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(string)
}
func (o Profile) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-profile:%s:%d", sk, relIndex), o.V}
}

// --- Height / Width ---

type Height struct{ V int }

func (o Height) Kind() Kind   { return KindHeight }
func (o Height) Class() Class { return ClassStream }
func (o Height) Value() any   { return o.V }
func (o Height) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(int)
}
func (o Height) Render(StreamKind, int) []string { return nil }

type Width struct{ V int }

func (o Width) Kind() Kind   { return KindWidth }
func (o Width) Class() Class { return ClassStream }
func (o Width) Value() any   { return o.V }
func (o Width) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(int)
}
func (o Width) Render(StreamKind, int) []string { return nil }

// --- Language (3-letter code, normalized to an ISO set upstream) ---

type Language struct{ V string }

func (o Language) Kind() Kind   { return KindLanguage }
func (o Language) Class() Class { return ClassMetadata }
func (o Language) Value() any   { return o.V }
func (o Language) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(string)
}
func (o Language) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-metadata:s:%s:%d", sk, relIndex), "language=" + o.V}
}

// --- Disposition (flag -> 0/1 mapping) ---

type Disposition struct{ Flags map[string]int }

func (o Disposition) Kind() Kind   { return KindDisposition }
func (o Disposition) Class() Class { return ClassMetadata }
func (o Disposition) Value() any   { return o.Flags }
func (o Disposition) Equal(other Option) bool {
	if !sameKind(o, other) {
		return false
	}
	b := other.Value().(map[string]int)
	if len(o.Flags) != len(b) {
		return false
	}
	for k, v := range o.Flags {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Default reports the value of the "default" flag, or 0 if absent.
func (o Disposition) Default() int { return o.Flags["default"] }

// WithDefault returns a copy of the disposition with its default flag set,
// leaving o unchanged; the fix-up pass stores the copy in place of the
// original option.
func (o Disposition) WithDefault(v int) Disposition {
	flags := make(map[string]int, len(o.Flags)+1)
	for k, fv := range o.Flags {
		flags[k] = fv
	}
	flags["default"] = v
	return Disposition{Flags: flags}
}

func (o Disposition) Render(sk StreamKind, relIndex int) []string {
	spec := fmt.Sprintf("-disposition:%s:%d", sk, relIndex)
	if o.Default() == 1 {
		return []string{spec, "default"}
	}
	return []string{spec, "0"}
}

// --- Tag (stream tag, e.g. hvc1 for HEVC-in-MP4) ---

type Tag struct{ V string }

func (o Tag) Kind() Kind   { return KindTag }
func (o Tag) Class() Class { return ClassMetadata }
func (o Tag) Value() any   { return o.V }
func (o Tag) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(string)
}
func (o Tag) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-tag:%s:%d", sk, relIndex), o.V}
}

// --- Filter (composite; Value is the ordered list of filter stage strings) ---

type Filter struct{ Stages []string }

func (o Filter) Kind() Kind   { return KindFilter }
func (o Filter) Class() Class { return ClassEncoder }
func (o Filter) Value() any   { return o.Stages }
func (o Filter) Equal(other Option) bool {
	if !sameKind(o, other) {
		return false
	}
	b := other.Value().([]string)
	if len(o.Stages) != len(b) {
		return false
	}
	for i := range o.Stages {
		if o.Stages[i] != b[i] {
			return false
		}
	}
	return true
}
func (o Filter) Render(sk StreamKind, relIndex int) []string {
	if len(o.Stages) == 0 {
		return nil
	}
	flag := "-vf"
	if sk == StreamAudio {
		flag = "-af"
	}
	chain := o.Stages[0]
	for _, s := range o.Stages[1:] {
		chain += "," + s
	}
	return []string{flag, chain}
}

// --- BitstreamFilter ---

type BitstreamFilter struct{ V string }

func (o BitstreamFilter) Kind() Kind   { return KindBitstreamFilter }
func (o BitstreamFilter) Class() Class { return ClassEncoder }
func (o BitstreamFilter) Value() any   { return o.V }
func (o BitstreamFilter) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(string)
}
func (o BitstreamFilter) Render(sk StreamKind, relIndex int) []string {
	return []string{fmt.Sprintf("-bsf:%s:%d", sk, relIndex), o.V}
}

// --- CRF ---

type CRF struct{ V int }

func (o CRF) Kind() Kind   { return KindCRF }
func (o CRF) Class() Class { return ClassEncoder }
func (o CRF) Value() any   { return o.V }
func (o CRF) Equal(other Option) bool {
	return sameKind(o, other) && o.V == other.Value().(int)
}
func (o CRF) Render(StreamKind, int) []string {
	return []string{"-crf", fmt.Sprintf("%d", o.V)}
}

// --- Metadata (key -> value, mux-time) ---

type Metadata struct {
	Key string
	Val string
}

func (o Metadata) Kind() Kind   { return KindMetadata }
func (o Metadata) Class() Class { return ClassMetadata }
func (o Metadata) Value() any   { return o.Key + "=" + o.Val }
func (o Metadata) Equal(other Option) bool {
	if !sameKind(o, other) {
		return false
	}
	ob, ok := other.(Metadata)
	return ok && o.Key == ob.Key && o.Val == ob.Val
}
func (o Metadata) Render(StreamKind, int) []string {
	return []string{"-metadata", o.Key + "=" + o.Val}
}
