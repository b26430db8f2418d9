package dokuwiki

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

// The wiki speaks classic XML-RPC. Only the subset the client actually
// sends and receives is modeled here: string, boolean, int and struct
// parameters, plus fault responses.

type methodCall struct {
	XMLName xml.Name   `xml:"methodCall"`
	Method  string     `xml:"methodName"`
	Params  []rpcParam `xml:"params>param"`
}

type methodResponse struct {
	XMLName xml.Name   `xml:"methodResponse"`
	Params  []rpcParam `xml:"params>param"`
	Fault   *rpcFault  `xml:"fault"`
}

type rpcParam struct {
	Value rpcValue `xml:"value"`
}

type rpcFault struct {
	Value rpcValue `xml:"value"`
}

type rpcValue struct {
	// Untyped content defaults to string per the XML-RPC spec.
	Raw     string     `xml:",chardata"`
	String  *string    `xml:"string"`
	Boolean *string    `xml:"boolean"`
	Int     *string    `xml:"int"`
	I4      *string    `xml:"i4"`
	Double  *string    `xml:"double"`
	Struct  *rpcStruct `xml:"struct"`
}

type rpcStruct struct {
	Members []rpcMember `xml:"member"`
}

type rpcMember struct {
	Name  string   `xml:"name"`
	Value rpcValue `xml:"value"`
}

// Text returns the value as a string.
func (v rpcValue) Text() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return *v.Int
	case v.I4 != nil:
		return *v.I4
	case v.Double != nil:
		return *v.Double
	default:
		return strings.TrimSpace(v.Raw)
	}
}

// Member returns a named struct member's value.
func (v rpcValue) Member(name string) (rpcValue, bool) {
	if v.Struct == nil {
		return rpcValue{}, false
	}
	for _, m := range v.Struct.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return rpcValue{}, false
}

// encodeCall serializes a method call. Parameters may be string, bool,
// int or map[string]any; anything else is an ErrInvalidInput.
func encodeCall(method string, params ...any) ([]byte, error) {
	call := methodCall{Method: method}
	for _, p := range params {
		v, err := encodeValue(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", method, err)
		}
		call.Params = append(call.Params, rpcParam{Value: v})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if err := enc.Encode(call); err != nil {
		return nil, fmt.Errorf("encode %s: %w", method, err)
	}
	return buf.Bytes(), nil
}

func encodeValue(p any) (rpcValue, error) {
	switch x := p.(type) {
	case string:
		s := x
		return rpcValue{String: &s}, nil
	case bool:
		b := "0"
		if x {
			b = "1"
		}
		return rpcValue{Boolean: &b}, nil
	case int:
		i := fmt.Sprintf("%d", x)
		return rpcValue{Int: &i}, nil
	case map[string]any:
		st := &rpcStruct{}
		for _, key := range sortedParamKeys(x) {
			mv, err := encodeValue(x[key])
			if err != nil {
				return rpcValue{}, err
			}
			st.Members = append(st.Members, rpcMember{Name: key, Value: mv})
		}
		return rpcValue{Struct: st}, nil
	default:
		return rpcValue{}, fmt.Errorf("%w: unsupported parameter type %T", errors.ErrInvalidInput, p)
	}
}

func sortedParamKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeResponse parses a method response, converting faults into
// RemoteError values.
func decodeResponse(method string, data []byte) (rpcValue, error) {
	var resp methodResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return rpcValue{}, fmt.Errorf("decode %s response: %w", method, err)
	}

	if resp.Fault != nil {
		code := 0
		if cv, ok := resp.Fault.Value.Member("faultCode"); ok {
			fmt.Sscanf(cv.Text(), "%d", &code)
		}
		msg := "unknown fault"
		if sv, ok := resp.Fault.Value.Member("faultString"); ok && sv.Text() != "" {
			msg = sv.Text()
		}
		return rpcValue{}, &errors.RemoteError{Method: method, Code: code, Fault: msg}
	}

	if len(resp.Params) == 0 {
		return rpcValue{}, nil
	}
	return resp.Params[0].Value, nil
}
