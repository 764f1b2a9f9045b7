package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// cliSink prints controller responses to the terminal. Errors are kept so
// the command can map them to an exit code.
type cliSink struct {
	out      io.Writer
	jsonMode bool
	err      error
}

func (s *cliSink) Respond(doc types.Document) error {
	return s.print(doc)
}

func (s *cliSink) RespondCreated(doc types.Document) error {
	return s.print(doc)
}

func (s *cliSink) RespondNoContent() error {
	if s.jsonMode {
		return nil
	}
	_, err := fmt.Fprintln(s.out, "OK")
	return err
}

func (s *cliSink) RespondError(code types.ErrorCode, message string) error {
	exit := exitUserError
	if code == types.ErrorCodeInternal {
		exit = exitSysError
	}
	s.err = &exitError{code: exit, err: fmt.Errorf("%s: %s", code, message)}
	return nil
}

func (s *cliSink) print(doc types.Document) error {
	if s.jsonMode {
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	if values, ok := doc["value"].([]any); ok {
		for i, v := range values {
			if i > 0 {
				fmt.Fprintln(s.out)
			}
			if d, ok := v.(types.Document); ok {
				s.printFields(d, "")
			}
		}
		if link, ok := doc["@odata.deltaLink"].(string); ok {
			fmt.Fprintf(s.out, "\nnext: %s\n", link)
		}
		return nil
	}
	s.printFields(doc, "")
	return nil
}

// printFields writes one "Label: value" line per populated field. Nested
// documents are indented under their label.
func (s *cliSink) printFields(doc types.Document, indent string) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		label := fieldLabel(k)
		switch v := doc[k].(type) {
		case nil:
		case types.Document:
			if len(v) == 0 {
				continue
			}
			fmt.Fprintf(s.out, "%s%s:\n", indent, label)
			s.printFields(v, indent+"  ")
		case []string:
			if len(v) > 0 {
				fmt.Fprintf(s.out, "%s%s: %s\n", indent, label, strings.Join(v, ", "))
			}
		case []any:
			for _, item := range v {
				if d, ok := item.(types.Document); ok {
					fmt.Fprintf(s.out, "%s%s: %s <%v>\n", indent, label, d["name"], d["address"])
				}
			}
		default:
			fmt.Fprintf(s.out, "%s%s: %v\n", indent, label, v)
		}
	}
}

// fieldLabel turns a document field name into a human label, e.g.
// "businessHomePage" -> "Business Home Page".
func fieldLabel(field string) string {
	name := strings.TrimPrefix(field, "@")
	words := strings.Fields(strcase.ToDelimited(strings.ReplaceAll(name, ".", " "), ' '))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
