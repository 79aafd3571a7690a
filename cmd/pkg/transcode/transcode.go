// Package transcode renders bencode item trees in other data formats
// for inspection: YAML, which keeps dictionary order, and CBOR, whose
// deterministic encoding re-sorts map keys by their CBOR bytes.
//
// Byte strings that are valid UTF-8 become text; anything else becomes
// binary (!!binary in YAML, a byte string in CBOR). Absent slots become
// null.
package transcode

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"bencodec/cmd/pkg/bencode"
)

// ErrUnsupportedKey is returned when a dictionary key has no CBOR map
// key equivalent (lists and dictionaries used as keys).
var ErrUnsupportedKey = errors.New("dictionary key cannot be a CBOR map key")

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transcode: CBOR encoder initialization failed: " + err.Error())
	}
}

// YAMLNode converts item to a YAML node tree.
func YAMLNode(item bencode.Item) *yaml.Node {
	switch v := item.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
	case *bencode.String:
		if utf8.Valid(v.Value) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v.Value)}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString(v.Value)}
	case *bencode.Integer:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: bencode.FormatInt(v.Value, 10)}
	case *bencode.List:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range v.All() {
			node.Content = append(node.Content, YAMLNode(child))
		}
		return node
	case *bencode.Dictionary:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for key, child := range v.All() {
			node.Content = append(node.Content, YAMLNode(key), YAMLNode(child))
		}
		return node
	}
	panic(fmt.Sprintf("transcode: unknown item type %T", item))
}

// YAML renders item as a YAML document.
func YAML(item bencode.Item) ([]byte, error) {
	return yaml.Marshal(YAMLNode(item))
}

// value converts item to the Go value handed to the CBOR encoder.
func value(item bencode.Item) (any, error) {
	switch v := item.(type) {
	case nil:
		return nil, nil
	case *bencode.String:
		if utf8.Valid(v.Value) {
			return string(v.Value), nil
		}
		return cbor.ByteString(v.Value), nil
	case *bencode.Integer:
		return v.Value, nil
	case *bencode.List:
		out := make([]any, 0, v.Len())
		for _, child := range v.All() {
			converted, err := value(child)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	case *bencode.Dictionary:
		out := make(map[any]any, v.Len())
		for key, child := range v.All() {
			k, err := value(key)
			if err != nil {
				return nil, err
			}
			switch k.(type) {
			case nil, []any, map[any]any:
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedKey, bencode.Display(key))
			}
			converted, err := value(child)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	}
	return nil, fmt.Errorf("transcode: unknown item type %T", item)
}

// CBOR encodes item using Core Deterministic Encoding.
func CBOR(item bencode.Item) ([]byte, error) {
	v, err := value(item)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(v)
}

// Diagnose returns CBOR diagnostic notation for item.
func Diagnose(item bencode.Item) (string, error) {
	data, err := CBOR(item)
	if err != nil {
		return "", err
	}
	return cbor.Diagnose(data)
}
