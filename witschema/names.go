package witschema

import (
	"fmt"

	"go.bytecodealliance.org/wit"
)

func witName(t wit.Type) string {
	switch typ := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		switch typ.Kind.(type) {
		case *wit.List:
			return "list"
		case *wit.Option:
			return "option"
		case *wit.Result:
			return "result"
		case *wit.Flags:
			return "flags"
		case *wit.Own:
			return "own"
		case *wit.Borrow:
			return "borrow"
		}
		return fmt.Sprintf("%T", typ.Kind)
	}
	return fmt.Sprintf("%T", t)
}
