package module_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sghaida/odimod/container"
	"github.com/sghaida/odimod/module"
)

type INum1 interface{ StringValue() string }

type Num1 struct{ id int }

func (n *Num1) StringValue() string { return "1" }

type INum2 interface{ IntValue() int }

type Num2 struct{ id int }

func (n *Num2) IntValue() int { return 1 }

type Clock struct{ id int }

type Mailer struct{ From string }

type Reports struct {
	Mailer *Mailer
	Clock  *Clock
}

func NewReports(m *Mailer, c *Clock) *Reports { return &Reports{Mailer: m, Clock: c} }

// Billing has two constructors, so its dependencies cannot be inferred.
type Billing struct{ Mailer *Mailer }

func NewBilling(m *Mailer) *Billing { return &Billing{Mailer: m} }
func NewBillingDefault() *Billing   { return &Billing{Mailer: &Mailer{From: "noreply"}} }

// Labeler takes a plain string, which is never a valid dependency.
type Labeler struct{ Label string }

func NewLabeler(label string) *Labeler { return &Labeler{Label: label} }

// Tagger takes a valid dependency followed by a string.
type Tagger struct {
	Mailer *Mailer
	Tag    string
}

func NewTagger(m *Mailer, tag string) *Tagger { return &Tagger{Mailer: m, Tag: tag} }

type Digest struct{ Clock *Clock }

func NewDigest(c *Clock) *Digest { return &Digest{Clock: c} }

type Notifier struct{ Mailer *Mailer }

func NewNotifier(m *Mailer) *Notifier { return &Notifier{Mailer: m} }

func newCatalog(t *testing.T, ctors ...any) *container.Constructors {
	t.Helper()
	cat := container.NewConstructors()
	if err := cat.Register(ctors...); err != nil {
		t.Fatalf("register constructors: %v", err)
	}
	return cat
}

// quiet returns options that keep test output clean and capture diagnostics.
func quiet(cat *container.Constructors) (*bytes.Buffer, []module.Option) {
	var buf bytes.Buffer
	return &buf, []module.Option{
		module.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
		module.WithConstructors(cat),
	}
}

func serviceTypes(ds []container.Descriptor) []string {
	out := make([]string, 0, len(ds))
	for _, d := range ds {
		out = append(out, d.String())
	}
	return out
}
