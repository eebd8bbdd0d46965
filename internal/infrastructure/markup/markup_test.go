package markup

import (
	"strings"
	"testing"
)

const sampleDoc = `<html><head><title>Shop</title></head><body>
<h1>Widget Pro 3000</h1>
<div class="offers">
  <div class="offer" data-seller="alpha">
    <span class="price">1 299,00 zł</span>
    <span class="seller-name">Alpha Store</span>
  </div>
  <div class="offer">
    <span class="price">1 350,00 zł</span>
  </div>
  <div class="offer sponsored">
    <span class="no-price">ask for price</span>
  </div>
</div>
<script>var price = "9,99";</script>
</body></html>`

func TestQuerySelectorAll(t *testing.T) {
	doc, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Run("matches by class", func(t *testing.T) {
		nodes := QuerySelectorAll(doc, ".offer")
		if len(nodes) != 3 {
			t.Errorf("len(.offer) = %d, want 3", len(nodes))
		}
	})

	t.Run("matches tag with class", func(t *testing.T) {
		nodes := QuerySelectorAll(doc, "span.price")
		if len(nodes) != 2 {
			t.Errorf("len(span.price) = %d, want 2", len(nodes))
		}
	})

	t.Run("matches descendant combinator", func(t *testing.T) {
		nodes := QuerySelectorAll(doc, ".offers .price")
		if len(nodes) != 2 {
			t.Errorf("len(.offers .price) = %d, want 2", len(nodes))
		}
	})

	t.Run("matches attribute selector", func(t *testing.T) {
		nodes := QuerySelectorAll(doc, "div[data-seller]")
		if len(nodes) != 1 {
			t.Fatalf("len(div[data-seller]) = %d, want 1", len(nodes))
		}
		if got := Attr(nodes[0], "data-seller"); got != "alpha" {
			t.Errorf("data-seller = %q, want alpha", got)
		}
	})

	t.Run("matches attribute value selector", func(t *testing.T) {
		nodes := QuerySelectorAll(doc, `div[data-seller=alpha]`)
		if len(nodes) != 1 {
			t.Errorf("len(div[data-seller=alpha]) = %d, want 1", len(nodes))
		}
	})

	t.Run("empty selector matches nothing", func(t *testing.T) {
		if nodes := QuerySelectorAll(doc, "  "); nodes != nil {
			t.Errorf("QuerySelectorAll(blank) = %v, want nil", nodes)
		}
	})
}

func TestQuerySelector(t *testing.T) {
	doc, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Run("first selector wins", func(t *testing.T) {
		n := QuerySelector(doc, "h1", ".price")
		if got := Text(n); got != "Widget Pro 3000" {
			t.Errorf("Text = %q, want Widget Pro 3000", got)
		}
	})

	t.Run("falls back to later selectors", func(t *testing.T) {
		n := QuerySelector(doc, ".missing", ".seller-name")
		if got := Text(n); got != "Alpha Store" {
			t.Errorf("Text = %q, want Alpha Store", got)
		}
	})

	t.Run("nil when nothing matches", func(t *testing.T) {
		if n := QuerySelector(doc, ".missing", "#also-missing"); n != nil {
			t.Errorf("QuerySelector = %v, want nil", n)
		}
	})
}

func TestText(t *testing.T) {
	doc, err := Parse(sampleDoc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	t.Run("collects and trims text", func(t *testing.T) {
		n := QuerySelector(doc, "span.price")
		if got := Text(n); got != "1 299,00 zł" {
			t.Errorf("Text = %q, want %q", got, "1 299,00 zł")
		}
	})

	t.Run("skips script content", func(t *testing.T) {
		body := QuerySelector(doc, "body")
		got := Text(body)
		if got == "" || strings.Contains(got, "var price") {
			t.Errorf("Text(body) = %q, should not contain script text", got)
		}
	})

	t.Run("nil node yields empty string", func(t *testing.T) {
		if got := Text(nil); got != "" {
			t.Errorf("Text(nil) = %q, want empty", got)
		}
	})
}
