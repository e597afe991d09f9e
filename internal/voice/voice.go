// Package voice maps free-text commands to navigation intents. Parse is a
// pure function; the HTTP layer decides what each intent does.
package voice

import "strings"

type Intent string

const (
	IntentLogin        Intent = "login"
	IntentRegister     Intent = "register"
	IntentListProducts Intent = "products"
	IntentViewCart     Intent = "cart"
	IntentViewOrders   Intent = "orders"
	IntentSearch       Intent = "search"
	IntentCheckout     Intent = "checkout"
	IntentHelp         Intent = "help"
	IntentLogout       Intent = "logout"
	IntentAddToCart    Intent = "add_to_cart"
	IntentNoMatch      Intent = "no_match"
)

// Result is a parsed command. Arg holds the search query for IntentSearch
// and the product reference (a number or an ordinal word) for
// IntentAddToCart; it is empty otherwise.
type Result struct {
	Intent Intent `json:"intent"`
	Arg    string `json:"arg,omitempty"`
}

// keywordTable is matched in declaration order; the first intent with a
// contained keyword wins, so the order here is load-bearing.
var keywordTable = []struct {
	intent   Intent
	keywords []string
}{
	{IntentLogin, []string{"login", "sign in"}},
	{IntentRegister, []string{"register", "sign up"}},
	{IntentListProducts, []string{"products", "items", "show products"}},
	{IntentViewCart, []string{"cart", "my cart", "shopping cart"}},
	{IntentViewOrders, []string{"orders", "my orders"}},
	{IntentSearch, []string{"search", "find"}},
	{IntentCheckout, []string{"checkout", "place order"}},
	{IntentHelp, []string{"help", "what can i do"}},
	{IntentLogout, []string{"logout", "sign out"}},
}

var ordinals = map[string]bool{
	"first":  true,
	"second": true,
	"third":  true,
	"fourth": true,
	"fifth":  true,
}

// Parse maps a command to an intent. Matching is substring containment on
// the lower-cased input. An "add to cart"/"buy" command with a usable
// product reference is resolved before the keyword table, since those
// phrases would otherwise be swallowed by the "cart" keyword; without a
// reference the phrase does not fire and the table decides.
func Parse(command string) Result {
	if command == "" {
		return Result{Intent: IntentNoMatch}
	}
	lower := strings.ToLower(command)

	if strings.Contains(lower, "add to cart") || strings.Contains(lower, "buy") {
		if ref, ok := productReference(lower); ok {
			return Result{Intent: IntentAddToCart, Arg: ref}
		}
	}

	for _, entry := range keywordTable {
		for _, keyword := range entry.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if entry.intent == IntentSearch {
				if query, ok := searchQuery(lower); ok {
					return Result{Intent: IntentSearch, Arg: query}
				}
				return Result{Intent: IntentSearch}
			}
			return Result{Intent: entry.intent}
		}
	}

	// Inputs containing "search for" always hold "search" and are handled
	// above; this keeps the phrase rule alive for future keyword edits.
	if query, ok := searchQuery(lower); ok {
		return Result{Intent: IntentSearch, Arg: query}
	}

	return Result{Intent: IntentNoMatch}
}

func searchQuery(lower string) (string, bool) {
	if !strings.Contains(lower, "search for") {
		return "", false
	}
	return strings.TrimSpace(strings.ReplaceAll(lower, "search for", "")), true
}

// productReference picks the first whitespace-delimited token that is
// purely numeric or one of the ordinal words first..fifth.
func productReference(lower string) (string, bool) {
	for _, word := range strings.Fields(lower) {
		if isDigits(word) || ordinals[word] {
			return word, true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
