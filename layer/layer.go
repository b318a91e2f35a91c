// Package layer implements the Layer Serializer: encoding a watchface
// descriptor's ordered layer records into the layer block's variable-length
// big-endian records, and decoding them back.
package layer

import (
	"encoding/json"
	"fmt"

	"github.com/dtno1/clockres/errs"
)

// dataType values that carry an interval field.
var intervalDataTypes = map[int32]bool{52: true, 59: true, 130: true}

// dataType value that carries an area_num[4] field.
const areaNumDataType int32 = 112

// HasInterval reports whether dataType carries an interval field.
func HasInterval(dataType int32) bool { return intervalDataTypes[dataType] }

// HasAreaNum reports whether dataType carries an area_num[4] field.
func HasAreaNum(dataType int32) bool { return dataType == areaNumDataType }

// ElementKind distinguishes the three imgArr element shapes.
type ElementKind uint8

const (
	KindInteger ElementKind = iota
	KindFilename
	KindTuple
)

// Element is one imgArr entry: an integer, a bare filename, or a 3-tuple
// whose third member is a filename. Only the fields matching Kind are
// meaningful.
type Element struct {
	Kind ElementKind

	Integer int32

	Filename string

	TupleA    int32
	TupleB    int32
	TupleName string
}

// Name returns the filename this element references, if any.
func (e Element) Name() string {
	switch e.Kind {
	case KindFilename:
		return e.Filename
	case KindTuple:
		return e.TupleName
	default:
		return ""
	}
}

// UnmarshalJSON accepts a JSON number, string, or 3-element array and
// classifies it into the matching Kind.
func (e *Element) UnmarshalJSON(data []byte) error {
	var asNumber float64
	if err := json.Unmarshal(data, &asNumber); err == nil {
		e.Kind = KindInteger
		e.Integer = int32(asNumber)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		e.Kind = KindFilename
		e.Filename = asString
		return nil
	}

	var asTuple [3]json.RawMessage
	if err := json.Unmarshal(data, &asTuple); err == nil {
		var a, b float64
		var name string
		if err := json.Unmarshal(asTuple[0], &a); err != nil {
			return fmt.Errorf("imgArr tuple[0]: %w: %w", err, errs.ErrConfigParse)
		}
		if err := json.Unmarshal(asTuple[1], &b); err != nil {
			return fmt.Errorf("imgArr tuple[1]: %w: %w", err, errs.ErrConfigParse)
		}
		if err := json.Unmarshal(asTuple[2], &name); err != nil {
			return fmt.Errorf("imgArr tuple[2]: %w: %w", err, errs.ErrConfigParse)
		}
		e.Kind = KindTuple
		e.TupleA = int32(a)
		e.TupleB = int32(b)
		e.TupleName = name
		return nil
	}

	return fmt.Errorf("imgArr element %s: %w", string(data), errs.ErrConfigParse)
}

// MarshalJSON emits the element back in whichever of the three shapes its
// Kind holds, for round-tripping a decoded layer block back to config.json.
func (e Element) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindInteger:
		return json.Marshal(e.Integer)
	case KindFilename:
		return json.Marshal(e.Filename)
	case KindTuple:
		return json.Marshal([3]any{e.TupleA, e.TupleB, e.TupleName})
	default:
		return nil, fmt.Errorf("unknown element kind %d: %w", e.Kind, errs.ErrConfigParse)
	}
}

// Layer is one descriptor entry (config.json's ordered layer list).
type Layer struct {
	DrawType  int32 `json:"drawType"`
	DataType  int32 `json:"dataType"`
	AlignType int32 `json:"alignType"`
	X         int32 `json:"x"`
	Y         int32 `json:"y"`
	Num       int32 `json:"num"`

	// Interval is meaningful iff HasInterval(DataType).
	Interval int32 `json:"interval,omitempty"`

	// AreaNum is meaningful iff HasAreaNum(DataType). The device format
	// fixes its width at 4, but Decode accepts a caller-supplied width
	// (see blob.WithAreaNumCount) for field configurations that vary it.
	AreaNum []int32 `json:"area_num,omitempty"`

	ImgArr []Element `json:"imgArr"`
}

// Descriptor is the parsed form of a watchface's config.json: its ordered
// layers. config.json's top-level shape is a bare JSON array of layer
// objects (see gen_clock.py's json.load(conFd) followed by `for layer in
// layer_list`), not an object wrapping a "layers" key, so Descriptor
// marshals and unmarshals as that array directly.
type Descriptor struct {
	Layers []Layer
}

// UnmarshalJSON reads config.json's bare top-level array into Layers.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &d.Layers); err != nil {
		return fmt.Errorf("config.json: %w: %w", err, errs.ErrConfigParse)
	}
	return nil
}

// MarshalJSON writes Layers back out as config.json's bare top-level array.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Layers)
}
