package macro

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies the type of a macro action.
type Kind int

// Action kinds.
const (
	KindUnknown Kind = iota
	KindRename
	KindDelete
	KindRegexMatch
	KindRegexSubstitute
	KindSet
	KindInclude
	KindHeader
	KindMap
)

var keywords = map[Kind]string{
	KindRename:          "RENAME",
	KindDelete:          "DELETE",
	KindRegexMatch:      "REMATCH",
	KindRegexSubstitute: "RESUB",
	KindSet:             "SET",
	KindInclude:         "INCLUDE",
	KindHeader:          "HEADER",
	KindMap:             "MAP",
}

var kindsByKeyword = func() map[string]Kind {
	m := make(map[string]Kind, len(keywords))
	for k, kw := range keywords {
		m[kw] = k
	}
	return m
}()

var upper = cases.Upper(language.Und)

// String returns the action keyword for the kind.
func (k Kind) String() string {
	if kw, ok := keywords[k]; ok {
		return kw
	}
	return "UNKNOWN"
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRename, KindDelete, KindRegexMatch, KindRegexSubstitute, KindSet, KindInclude, KindHeader, KindMap}
}

// ParseKind returns the kind for keyword. Keywords are matched without
// regard to case or surrounding whitespace.
func ParseKind(keyword string) (Kind, bool) {
	k, ok := kindsByKeyword[upper.String(strings.TrimSpace(keyword))]
	return k, ok
}

// Usage returns the record layout of the kind, for help output.
func (k Kind) Usage() string {
	switch k {
	case KindRename:
		return "RENAME,column,new name"
	case KindDelete:
		return "DELETE,column"
	case KindRegexMatch:
		return "REMATCH,column,pattern"
	case KindRegexSubstitute:
		return "RESUB,column,pattern,replacement"
	case KindSet:
		return "SET,column,template"
	case KindInclude:
		return "INCLUDE,column[,column...]"
	case KindHeader:
		return "HEADER,key,value"
	case KindMap:
		return "MAP,column,from,to[,from,to...]"
	default:
		return ""
	}
}

// checkArity verifies the number of fields in a record, keyword included.
func (k Kind) checkArity(fields int) error {
	var ok bool
	switch k {
	case KindDelete:
		ok = fields == 2
	case KindRename, KindRegexMatch, KindSet, KindHeader:
		ok = fields == 3
	case KindRegexSubstitute:
		ok = fields == 4
	case KindInclude:
		ok = fields >= 2
	case KindMap:
		ok = fields >= 4 && fields%2 == 0
	}
	if !ok {
		return fmt.Errorf("%s has %d fields, expected %s", k, fields, k.Usage())
	}
	return nil
}
