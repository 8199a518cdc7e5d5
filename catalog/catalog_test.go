package catalog_test

import (
	"slices"
	"testing"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/google/go-cmp/cmp"
)

func TestDialects_Operations(t *testing.T) {
	testCases := map[string]struct {
		dialect *catalog.Catalog
		exp     []catalog.Operation
	}{
		"dialect a": {
			dialect: catalog.DialectA(),
			exp: []catalog.Operation{
				catalog.Blend, catalog.Describe, catalog.FaceSwap, catalog.Imagine,
				catalog.Result, catalog.Seed, catalog.Upload, catalog.Upscale, catalog.Variations,
			},
		},
		"dialect b": {
			dialect: catalog.DialectB(),
			exp: []catalog.Operation{
				catalog.Blend, catalog.Describe, catalog.Imagine, catalog.Remix,
				catalog.Result, catalog.Seed, catalog.Upload, catalog.Upscale, catalog.Variations,
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			if diff := cmp.Diff(tc.exp, tc.dialect.Operations()); diff != "" {
				t.Errorf("operations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDialects_Invariants(t *testing.T) {
	for _, d := range []*catalog.Catalog{catalog.DialectA(), catalog.DialectB()} {
		for _, op := range d.Operations() {
			spec, ok := d.Lookup(op)
			if !ok {
				t.Fatalf("%s: lookup of listed op %s failed", d.Name(), op)
			}

			for _, f := range spec.HandleFields {
				if !slices.Contains(spec.Required, f) {
					t.Errorf("%s/%s: handle field %q not required", d.Name(), op, f)
				}
			}

			if spec.Encoding == catalog.JSON && (spec.MinFiles != 0 || spec.MaxFiles != 0) {
				t.Errorf("%s/%s: json op declares file bounds", d.Name(), op)
			}

			if spec.MaxFiles != 0 && spec.MaxFiles < spec.MinFiles {
				t.Errorf("%s/%s: max files %d below min %d", d.Name(), op, spec.MaxFiles, spec.MinFiles)
			}

			if spec.Path == "" || spec.Path[0] != '/' {
				t.Errorf("%s/%s: path %q must be rooted", d.Name(), op, spec.Path)
			}
		}
	}
}

func TestDialects_Divergence(t *testing.T) {
	a, b := catalog.DialectA(), catalog.DialectB()

	if _, ok := a.Lookup(catalog.Remix); ok {
		t.Error("dialect a must not support remix")
	}
	if _, ok := b.Lookup(catalog.FaceSwap); ok {
		t.Error("dialect b must not support faceswap")
	}

	upA, _ := a.Lookup(catalog.Upscale)
	upB, _ := b.Lookup(catalog.Upscale)
	if !upA.Immediate {
		t.Error("dialect a upscale must answer immediately")
	}
	if upB.Immediate {
		t.Error("dialect b upscale must return a handle")
	}

	imA, _ := a.Lookup(catalog.Imagine)
	imB, _ := b.Lookup(catalog.Imagine)
	if !imA.Accepts(catalog.FieldMode) {
		t.Error("dialect a imagine must accept mode")
	}
	if imB.Accepts(catalog.FieldMode) {
		t.Error("dialect b imagine must not accept mode")
	}
	if !imB.Accepts(catalog.FieldCallbackURL) {
		t.Error("dialect b imagine must accept callbackURL")
	}

	if diff := cmp.Diff([]string{catalog.FieldTaskID}, a.HandleKeys()); diff != "" {
		t.Errorf("dialect a handle keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{catalog.FieldResultID}, b.HandleKeys()); diff != "" {
		t.Errorf("dialect b handle keys (-want +got):\n%s", diff)
	}

	if a.DefaultBaseURL() != catalog.DialectABaseURL {
		t.Errorf("exp dialect a base %q, got %q", catalog.DialectABaseURL, a.DefaultBaseURL())
	}
	if b.DefaultBaseURL() != "" {
		t.Errorf("exp dialect b to have no default base, got %q", b.DefaultBaseURL())
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	d := catalog.DialectB()

	spec, _ := d.Lookup(catalog.Upscale)
	spec.Required[0] = "mutated"
	spec.HandleFields = nil

	again, _ := d.Lookup(catalog.Upscale)
	if again.Required[0] != catalog.FieldMessageID {
		t.Errorf("catalog row mutated through lookup copy: %v", again.Required)
	}
	if len(again.HandleFields) != 2 {
		t.Errorf("exp 2 handle fields, got %v", again.HandleFields)
	}
}

func TestOperationSpec_Fields(t *testing.T) {
	spec, _ := catalog.DialectA().Lookup(catalog.Variations)

	exp := []string{catalog.FieldTaskID, catalog.FieldPosition, catalog.FieldCallbackURL}
	if diff := cmp.Diff(exp, spec.Fields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if spec.Accepts(catalog.FieldMode) {
		t.Error("variations must not accept mode")
	}
}

func TestByName(t *testing.T) {
	testCases := map[string]struct {
		in     string
		exp    string
		expErr bool
	}{
		"short a":      {in: "a", exp: "dialect-a"},
		"upper b":      {in: "B", exp: "dialect-b"},
		"full name":    {in: " dialect-b ", exp: "dialect-b"},
		"unknown name": {in: "c", expErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			d, err := catalog.ByName(tc.in)
			if tc.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if d.Name() != tc.exp {
				t.Errorf("exp %s, got %s", tc.exp, d.Name())
			}
		})
	}
}
