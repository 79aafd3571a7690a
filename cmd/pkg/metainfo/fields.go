package metainfo

import (
	"fmt"

	"bencodec/cmd/pkg/bencode"
)

func lookup(d *bencode.Dictionary, key string) (bencode.Item, error) {
	item, ok := d.GetString(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s missing", ErrInvalid, key)
	}
	return item, nil
}

func requireDict(d *bencode.Dictionary, key string) (*bencode.Dictionary, error) {
	item, err := lookup(d, key)
	if err != nil {
		return nil, err
	}
	dict, ok := item.(*bencode.Dictionary)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not dictionary", ErrInvalid, key, bencode.TypeOf(item))
	}
	return dict, nil
}

func requireString(d *bencode.Dictionary, key string) (string, error) {
	item, err := lookup(d, key)
	if err != nil {
		return "", err
	}
	s, ok := item.(*bencode.String)
	if !ok {
		return "", fmt.Errorf("%w: %s is %s, not string", ErrInvalid, key, bencode.TypeOf(item))
	}
	return string(s.Value), nil
}

// optionalString returns "" when key is missing.
func optionalString(d *bencode.Dictionary, key string) (string, error) {
	if !d.HasString(key) {
		return "", nil
	}
	return requireString(d, key)
}

func requireInt(d *bencode.Dictionary, key string) (int64, error) {
	item, err := lookup(d, key)
	if err != nil {
		return 0, err
	}
	n, ok := item.(*bencode.Integer)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %s, not integer", ErrInvalid, key, bencode.TypeOf(item))
	}
	return n.Value, nil
}

// optionalInt returns 0 when key is missing.
func optionalInt(d *bencode.Dictionary, key string) (int64, error) {
	if !d.HasString(key) {
		return 0, nil
	}
	return requireInt(d, key)
}

func requireStringList(d *bencode.Dictionary, key string) ([]string, error) {
	item, err := lookup(d, key)
	if err != nil {
		return nil, err
	}
	list, ok := item.(*bencode.List)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, not list", ErrInvalid, key, bencode.TypeOf(item))
	}
	result := make([]string, 0, list.Len())
	for i, element := range list.All() {
		s, ok := element.(*bencode.String)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %s, not string", ErrInvalid, key, i, bencode.TypeOf(element))
		}
		result = append(result, string(s.Value))
	}
	return result, nil
}
