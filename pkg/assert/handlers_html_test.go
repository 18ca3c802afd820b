package assert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleIsHTML(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		out  string
		pass bool
	}{
		{"well-formed document", "<div><p>Hello <b>world</b></p></div>", true},
		{"void element unclosed", "<div>line one<br>line two</div>", true},
		{"plain text rejected", "just plain text", false},
		{"xml prolog rejected", `<?xml version="1.0"?><root></root>`, false},
		{"unrecognized tag rejected", "<frobnicate>hi</frobnicate>", false},
		{"mismatched tags rejected", "<div><p>oops</div></p>", false},
		{"trailing content rejected", "<div>hi</div> trailing", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Dispatch(context.Background(), Assertion{Kind: KindIsHTML}, EvalContext{Output: tt.out})
			assert.Equal(t, tt.pass, res.Pass, res.Reason)
		})
	}
}

func TestHandleContainsHTML(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		out  string
		pass bool
	}{
		{"tag pair plus entity", "The answer is <b>42</b> &amp; done", true},
		{"comment plus self-close", "<!-- note --> here is a line <br/>", true},
		{"plain text rejected", "no markup here at all", false},
		{"lone unclosed tag rejected", "this has a <word> in it", false},
		{"math comparison rejected", "5 < 3 and 7 > 2", false},
		{"bracketed email rejected", "contact <[email protected]> for help", false},
		{"single signal insufficient", "just one <b>bold</b> word", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Dispatch(context.Background(), Assertion{Kind: KindContainsHTML}, EvalContext{Output: tt.out})
			assert.Equal(t, tt.pass, res.Pass, res.Reason)
		})
	}
}

func TestHandleNotIsHTMLInverts(t *testing.T) {
	r := NewRegistry()
	res := r.Dispatch(context.Background(), Assertion{Kind: KindNotIsHTML}, EvalContext{Output: "plain text"})
	assert.True(t, res.Pass)
}
