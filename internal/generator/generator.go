// Package generator makes up plausible security events. It is used by the
// generate command to produce sample CEF output and to smoke-test sinks.
package generator

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"go.uber.org/zap"

	"github.com/zostay/go-cef"
	"github.com/zostay/go-cef/extension"
	"github.com/zostay/go-cef/field"
	"github.com/zostay/go-cef/header"
)

// Identity of the made up device.
const (
	Vendor  = "zostay"
	Product = "cefgen"
	Version = "1.0"
)

// Signature IDs of the generated event kinds.
const (
	SigLoginFailure = "100"
	SigFirewallDrop = "200"
	SigMalware      = "300"
)

// Generator generates fake security events.
type Generator struct {
	faker   faker.Faker
	now     func() time.Time
	logger  *zap.Logger
	escaper *field.Escaper
}

// New creates a generator. A zero seed uses a random one. Generated events
// report their escapes to logger.
func New(seed int64, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := faker.New()
	if seed != 0 {
		f = faker.NewWithSeed(rand.NewSource(seed))
	}

	return &Generator{
		faker:   f,
		now:     time.Now,
		logger:  logger,
		escaper: field.NewEscaper(field.WithLogger(logger)),
	}
}

// WithClock replaces the clock used for receipt times.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Next returns a random event of a random kind.
func (g *Generator) Next() *cef.Event {
	switch g.faker.IntBetween(0, 2) {
	case 0:
		return g.LoginFailure()
	case 1:
		return g.FirewallDrop()
	default:
		return g.Malware()
	}
}

func (g *Generator) base(sig, name string, sev int) *cef.Event {
	e, err := cef.New(
		cef.WithDevice(Vendor, Product, Version),
		cef.WithSignature(sig, name),
		cef.WithEscaper(g.escaper),
	)
	if err != nil {
		// the options above cannot fail
		panic(err)
	}

	e.Severity, err = header.SeverityFromInt(sev)
	if err != nil {
		panic(err)
	}

	g.set(e, extension.ReceiptTime, extension.FormatTime(g.now()))
	g.set(e, "externalId", uuid.NewString())
	return e
}

func (g *Generator) set(e *cef.Event, key, value string) {
	if err := e.Set(key, value); err != nil {
		g.logger.Error("generated an invalid extension key", zap.String("key", key), zap.Error(err))
	}
}

func (g *Generator) port() string {
	return strconv.Itoa(g.faker.IntBetween(1024, 65535))
}

// LoginFailure makes up a failed authentication.
func (g *Generator) LoginFailure() *cef.Event {
	e := g.base(SigLoginFailure, "Failed login", g.faker.IntBetween(3, 6))
	g.set(e, "src", g.faker.Internet().Ipv4())
	g.set(e, "suser", g.faker.Internet().User())
	g.set(e, "dhost", g.faker.Internet().Domain())
	g.set(e, "outcome", "failure")
	return e
}

// FirewallDrop makes up a blocked connection.
func (g *Generator) FirewallDrop() *cef.Event {
	e := g.base(SigFirewallDrop, "Connection dropped", g.faker.IntBetween(1, 4))
	g.set(e, "src", g.faker.Internet().Ipv4())
	g.set(e, "spt", g.port())
	g.set(e, "dst", g.faker.Internet().Ipv4())
	g.set(e, "dpt", strconv.Itoa([]int{22, 23, 445, 3389}[g.faker.IntBetween(0, 3)]))
	g.set(e, "proto", []string{"TCP", "UDP"}[g.faker.IntBetween(0, 1)])
	g.set(e, "act", "drop")
	return e
}

// Malware makes up a malware detection. The message and file path contain
// characters that must be escaped.
func (g *Generator) Malware() *cef.Event {
	e := g.base(SigMalware, "Malware detected | quarantined", g.faker.IntBetween(7, 10))
	g.set(e, "dhost", g.faker.Internet().Domain())
	g.set(e, "duser", g.faker.Internet().User())
	g.set(e, "filePath", `C:\Users\`+g.faker.Internet().User()+`\Downloads\invoice.exe`)
	g.set(e, "msg", "signature="+g.faker.Lorem().Word())
	g.set(e, "act", "quarantine")
	return e
}
