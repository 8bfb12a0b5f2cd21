package parser

import (
	"encoding/binary"
	"strings"
)

// Data is one parsed data directive: the optional label and the encoded
// bytes.
type Data struct {
	Label string
	Bytes []byte
}

// dataWidth is the element width of a data directive.
type dataWidth int

const (
	widthDB dataWidth = 1
	widthDW dataWidth = 2
	widthDD dataWidth = 4
	widthDQ dataWidth = 8
)

var dataWidths = map[string]dataWidth{
	"db": widthDB,
	"dw": widthDW,
	"dd": widthDD,
	"dq": widthDQ,
}

// ParseData matches `[LABEL] {db|dw|dd|dq} VALUE[, VALUE]*`. Values are
// integer literals sized to the directive width or double-quoted strings;
// strings under dw/dd/dq are zero-padded to the width.
func ParseData(s string) (Data, bool, error) {
	label, width, rest, ok := splitDataParts(s)
	if !ok {
		return Data{}, false, nil
	}

	var out []byte
	values := valueIterator{s: rest}
	for {
		value, done, err := values.next()
		if err != nil {
			return Data{}, true, err
		}
		if done {
			break
		}
		out, err = value.appendTo(out, width)
		if err != nil {
			return Data{}, true, err
		}
	}

	return Data{Label: label, Bytes: out}, true, nil
}

// splitDataParts separates the optional label, the directive and the
// value list.
func splitDataParts(s string) (label string, width dataWidth, rest string, ok bool) {
	t1, rmn, found := cutWhitespace(s)
	if !found {
		return "", 0, "", false
	}

	if w, isDirective := dataWidths[t1]; isDirective {
		return "", w, rmn, true
	}

	if !IsIdentifier(t1) {
		return "", 0, "", false
	}
	t2, rmn, found := cutWhitespace(rmn)
	if !found {
		return "", 0, "", false
	}
	if w, isDirective := dataWidths[t2]; isDirective {
		return t1, w, rmn, true
	}
	return "", 0, "", false
}

func cutWhitespace(s string) (head, tail string, found bool) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
	if idx == -1 {
		if s == "" {
			return "", "", false
		}
		return s, "", true
	}
	return s[:idx], strings.TrimSpace(s[idx+1:]), true
}

// dataValue is one element of a directive's value list.
type dataValue struct {
	num   uint64
	str   string
	isStr bool
}

// appendTo encodes the value at the directive width.
func (v dataValue) appendTo(buf []byte, width dataWidth) ([]byte, error) {
	if v.isStr {
		buf = append(buf, v.str...)
		if pad := len(v.str) % int(width); pad != 0 {
			buf = append(buf, make([]byte, int(width)-pad)...)
		}
		return buf, nil
	}

	switch width {
	case widthDB:
		if v.num > 0xFF {
			return nil, errorf("%d is not a 8 bit number", v.num)
		}
		return append(buf, byte(v.num)), nil
	case widthDW:
		if v.num > 0xFFFF {
			return nil, errorf("%d is not a 16 bit number", v.num)
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(v.num)), nil
	case widthDD:
		if v.num > 0xFFFFFFFF {
			return nil, errorf("%d is not a 32 bit number", v.num)
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(v.num)), nil
	default:
		return binary.LittleEndian.AppendUint64(buf, v.num), nil
	}
}

// valueIterator walks the comma-separated value list of a data
// directive.
type valueIterator struct {
	s string
}

func (it *valueIterator) next() (dataValue, bool, error) {
	it.s = strings.TrimLeft(it.s, " \t,")
	if it.s == "" {
		return dataValue{}, true, nil
	}

	if strings.HasPrefix(it.s, "\"") {
		rest := it.s[1:]
		end := strings.IndexByte(rest, '"')
		if end == -1 {
			return dataValue{}, false, errorf("unclosed \" found")
		}
		it.s = rest[end+1:]
		return dataValue{str: rest[:end], isStr: true}, false, nil
	}

	token := it.s
	if idx := strings.IndexAny(it.s, " \t,"); idx != -1 {
		token, it.s = it.s[:idx], it.s[idx:]
	} else {
		it.s = ""
	}

	n, ok, err := ParseUint(token, 64)
	if err != nil {
		return dataValue{}, false, err
	}
	if !ok {
		return dataValue{}, false, errorf("%s is not a valid data value", token)
	}
	return dataValue{num: n}, false, nil
}
