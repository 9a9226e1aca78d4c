package cartview

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

const (
	operationName  = "GetCartById"
	cartIDVariable = "cartId"
)

// getCartByIDQuery is the one operation this service sends upstream. The
// selection mirrors the Cart domain type; changing either means changing
// both.
const getCartByIDQuery = `query GetCartById($cartId: ID!) {
  cart(id: $cartId) {
    id
    totalItems
    subTotal {
      amount
      formatted
    }
    items {
      id
      name
      quantity
      unitTotal {
        formatted
      }
    }
  }
}`

func init() {
	mustValidateQuery()
}

// mustValidateQuery parses the static document and pins the operation name
// and its single required variable. A mismatch is a programmer error.
func mustValidateQuery() {
	doc, err := parser.ParseQuery(&ast.Source{Name: "get_cart_by_id.graphql", Input: getCartByIDQuery})
	if err != nil {
		panic(fmt.Sprintf("cartview: invalid GetCartById document: %v", err))
	}
	if len(doc.Operations) != 1 {
		panic(fmt.Sprintf("cartview: expected exactly one operation, found %d", len(doc.Operations)))
	}

	op := doc.Operations[0]
	if op.Name != operationName {
		panic(fmt.Sprintf("cartview: operation named %q, expected %q", op.Name, operationName))
	}
	if len(op.VariableDefinitions) != 1 {
		panic(fmt.Sprintf("cartview: expected exactly one variable, found %d", len(op.VariableDefinitions)))
	}

	varDef := op.VariableDefinitions[0]
	if varDef.Variable != cartIDVariable {
		panic(fmt.Sprintf("cartview: variable named %q, expected %q", varDef.Variable, cartIDVariable))
	}
	if varDef.Type == nil || !varDef.Type.NonNull {
		panic("cartview: cart id variable must be non-null")
	}
}
