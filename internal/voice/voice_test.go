package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFixedIntents(t *testing.T) {
	tests := []struct {
		command string
		want    Intent
	}{
		{"please login", IntentLogin},
		{"I want to sign in", IntentLogin},
		{"sign up for an account", IntentRegister},
		{"show products", IntentListProducts},
		{"show me the items", IntentListProducts},
		{"show me my cart please", IntentViewCart},
		{"open shopping cart", IntentViewCart},
		{"my orders", IntentViewOrders},
		{"checkout now", IntentCheckout},
		{"place order", IntentCheckout},
		{"what can i do", IntentHelp},
		{"help me", IntentHelp},
		{"logout", IntentLogout},
		{"sign out now", IntentLogout},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			got := Parse(tt.command)
			assert.Equal(t, tt.want, got.Intent)
			assert.Empty(t, got.Arg)
		})
	}
}

func TestParseEmptyCommand(t *testing.T) {
	assert.Equal(t, Result{Intent: IntentNoMatch}, Parse(""))
}

func TestParseNoMatch(t *testing.T) {
	assert.Equal(t, Result{Intent: IntentNoMatch}, Parse("tell me a joke"))
}

func TestParseSearchQuery(t *testing.T) {
	got := Parse("search for organic apples")
	assert.Equal(t, IntentSearch, got.Intent)
	assert.Equal(t, "organic apples", got.Arg)

	got = Parse("SEARCH FOR Whole Wheat Bread")
	assert.Equal(t, IntentSearch, got.Intent)
	assert.Equal(t, "whole wheat bread", got.Arg)
}

func TestParseSearchWithoutQuery(t *testing.T) {
	got := Parse("search apples")
	assert.Equal(t, IntentSearch, got.Intent)
	assert.Empty(t, got.Arg)

	got = Parse("find something nice")
	assert.Equal(t, IntentSearch, got.Intent)
	assert.Empty(t, got.Arg)
}

// The keyword table is matched in declaration order, so earlier intents win
// over the search trigger words even when both are present.
func TestParseKeywordOrderPrecedence(t *testing.T) {
	assert.Equal(t, IntentViewCart, Parse("find my cart").Intent)
	assert.Equal(t, IntentListProducts, Parse("search the products").Intent)
	assert.Equal(t, IntentLogin, Parse("find the login page").Intent)
}

func TestParseAddToCart(t *testing.T) {
	got := Parse("add to cart 2")
	assert.Equal(t, IntentAddToCart, got.Intent)
	assert.Equal(t, "2", got.Arg)

	got = Parse("please buy third item")
	assert.Equal(t, IntentAddToCart, got.Intent)
	assert.Equal(t, "third", got.Arg)

	got = Parse("buy 42 now")
	assert.Equal(t, IntentAddToCart, got.Intent)
	assert.Equal(t, "42", got.Arg)
}

// With no numeric or ordinal reference the add-to-cart phrase does not fire
// and the keyword table decides ("cart" and "products" are contained).
func TestParseAddToCartWithoutReference(t *testing.T) {
	assert.Equal(t, IntentViewCart, Parse("add to cart the milk").Intent)
	assert.Equal(t, IntentListProducts, Parse("buy products").Intent)
}

func TestParseOrdinalWords(t *testing.T) {
	for _, word := range []string{"first", "second", "third", "fourth", "fifth"} {
		got := Parse("buy the " + word + " one")
		assert.Equal(t, IntentAddToCart, got.Intent, "ordinal %q", word)
		assert.Equal(t, word, got.Arg)
	}

	// "sixth" is not in the ordinal set and "buy" alone has no fallback
	assert.Equal(t, IntentNoMatch, Parse("buy the sixth one").Intent)
}
