package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-intel/internal/domain"
	"github.com/sells-group/lead-intel/internal/model"
	"github.com/sells-group/lead-intel/internal/normalize"
	"github.com/sells-group/lead-intel/internal/provider"
	"github.com/sells-group/lead-intel/internal/scorer"
	"github.com/sells-group/lead-intel/internal/signals"
)

// Keys of Lead.Providers.
const (
	StepDomain  = "domain_search"
	StepEmail   = "email_finder"
	StepCompany = "company_directory"
	StepPerson  = "person_directory"
)

// StatusSkipped marks a step whose input was incomplete, so no call was made.
const StatusSkipped = "skipped"

const (
	// GeneratedSource labels pattern-guessed emails.
	GeneratedSource = "Generated pattern"
	// GeneratedConfidence is the confidence given to pattern-guessed emails.
	GeneratedConfidence = 30
	// UnknownEmail is used when there is no name or company to guess from.
	UnknownEmail = "email@unknown.com"
)

var (
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]`)
	legalTokens = regexp.MustCompile(`inc|corp|llc|ltd`)
)

// Enricher turns a normalized profile into a scored lead. Every provider is
// optional; a nil provider behaves like one that never finds anything.
type Enricher struct {
	resolver  *domain.Resolver
	emails    provider.EmailFinder
	companies provider.CompanyDirectory
	people    provider.PersonDirectory
	scorer    *scorer.Scorer
	jitter    scorer.Jitter
	now       func() time.Time
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithClock overrides time.Now for EnrichedAt and company age signals.
func WithClock(now func() time.Time) Option {
	return func(e *Enricher) { e.now = now }
}

// WithJitter sets the jitter source for basic scores.
func WithJitter(j scorer.Jitter) Option {
	return func(e *Enricher) { e.jitter = j }
}

// NewEnricher wires the providers and scorer into an Enricher.
func NewEnricher(
	resolver *domain.Resolver,
	emails provider.EmailFinder,
	companies provider.CompanyDirectory,
	people provider.PersonDirectory,
	sc *scorer.Scorer,
	opts ...Option,
) *Enricher {
	if resolver == nil {
		resolver = domain.NewResolver(nil)
	}
	if sc == nil {
		sc = scorer.Default()
	}
	e := &Enricher{
		resolver:  resolver,
		emails:    emails,
		companies: companies,
		people:    people,
		scorer:    sc,
		jitter:    scorer.NewRandJitter(0),
		now:       time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Scorer returns the scorer the Enricher uses.
func (e *Enricher) Scorer() *scorer.Scorer { return e.scorer }

// draft collects what the concurrent steps found. Each step writes only its
// own fields.
type draft struct {
	resolution domain.Resolution
	contact    *model.ContactInfo
	company    *model.CompanyProfile
	person     *model.PersonProfile

	emailStatus   string
	companyStatus string
	personStatus  string
}

// Enrich resolves the company domain, then looks up email, company and
// person in parallel, fills defaults for whatever was not found, and scores
// the result. It never returns an error: a failing provider only loses its
// own data.
func (e *Enricher) Enrich(ctx context.Context, p model.Profile) *model.Lead {
	start := e.now()
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("name", p.Name), zap.String("company", p.Company))

	var (
		d        draft
		g        errgroup.Group
		panicMu  sync.Mutex
		panicked any
	)
	safe := func(fn func()) func() error {
		return func() error {
			defer func() {
				if r := recover(); r != nil {
					panicMu.Lock()
					if panicked == nil {
						panicked = r
					}
					panicMu.Unlock()
				}
			}()
			fn()
			return nil
		}
	}

	// Email lookup needs the domain, so it runs after resolution on the same
	// goroutine. Company and person lookups do not wait.
	g.Go(safe(func() {
		d.resolution = e.resolver.Resolve(ctx, p.Company)
		if d.resolution.Domain == "" || p.Name == "" || e.emails == nil {
			d.emailStatus = StatusSkipped
			return
		}
		res := e.emails.FindEmail(ctx, p.Name, d.resolution.Domain)
		d.emailStatus = res.Status.String()
		switch res.Status {
		case provider.StatusOK:
			d.contact = &model.ContactInfo{
				Email:           res.Value.Email,
				EmailConfidence: res.Value.Confidence,
				EmailSource:     res.Value.Source,
				Sources:         res.Value.Sources,
			}
		case provider.StatusNotFound, provider.StatusError:
		}
	}))

	g.Go(safe(func() {
		if p.Company == "" || e.companies == nil {
			d.companyStatus = StatusSkipped
			return
		}
		res := e.companies.EnrichCompany(ctx, p.Company)
		d.companyStatus = res.Status.String()
		switch res.Status {
		case provider.StatusOK:
			c := res.Value
			d.company = &c
		case provider.StatusNotFound, provider.StatusError:
		}
	}))

	g.Go(safe(func() {
		if p.Name == "" || e.people == nil {
			d.personStatus = StatusSkipped
			return
		}
		res := e.people.SearchPerson(ctx, p.Name, p.Company)
		d.personStatus = res.Status.String()
		switch res.Status {
		case provider.StatusOK:
			pp := res.Value
			d.person = &pp
		case provider.StatusNotFound, provider.StatusError:
		}
	}))

	_ = g.Wait()
	if panicked != nil {
		panic(fmt.Sprintf("pipeline: enrichment step panicked: %v", panicked))
	}

	lead := e.assemble(p, &d)

	log.Info("pipeline: lead enriched",
		zap.String("domain", lead.Domain),
		zap.Int("score", lead.Score),
		zap.Any("providers", lead.Providers),
		zap.Duration("duration", e.now().Sub(start)),
	)
	return lead
}

func (e *Enricher) assemble(p model.Profile, d *draft) *model.Lead {
	lead := &model.Lead{
		Profile: p,
		Domain:  d.resolution.Domain,
		Providers: map[string]string{
			StepEmail:   d.emailStatus,
			StepCompany: d.companyStatus,
			StepPerson:  d.personStatus,
		},
	}
	switch {
	case p.Company == "":
		lead.Providers[StepDomain] = StatusSkipped
	default:
		lead.Providers[StepDomain] = d.resolution.Lookup.String()
	}

	if d.contact != nil {
		lead.ContactInfo = *d.contact
	}
	if d.company != nil {
		lead.CompanyData = *d.company
		if lead.Domain == "" {
			lead.Domain = d.company.Domain
		}
	}
	if d.person != nil {
		lead.PersonDetails = d.person
		if lead.Title == "" {
			lead.Title = d.person.Title
		}
		if d.person.City != "" && d.person.State != "" {
			lead.Location = d.person.City + ", " + d.person.State
		}
	}

	now := e.now()
	lead.BuyingSignals = signals.Generate(lead, now)

	if d.company == nil {
		lead.CompanyData = model.UnknownCompany()
	}
	if d.contact == nil {
		lead.ContactInfo = GeneratedContact(lead.Name, lead.Company)
	}

	lead.Score, lead.Breakdown = e.scorer.Score(lead)
	lead.EnrichedAt = now
	return lead
}

// EnrichOrBasic normalizes raw and enriches it. If enrichment panics, it
// logs the failure and returns Basic instead.
func (e *Enricher) EnrichOrBasic(ctx context.Context, raw model.RawProfile) (lead *model.Lead) {
	p := normalize.Profile(raw)
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("pipeline: enrichment failed, using basic score",
				zap.String("component", "pipeline"),
				zap.String("name", p.Name),
				zap.Any("panic", r),
			)
			lead = e.Basic(p)
		}
	}()
	return e.Enrich(ctx, p)
}

// Basic builds a lead without calling any provider.
func (e *Enricher) Basic(p model.Profile) *model.Lead {
	now := e.now()
	lead := &model.Lead{
		Profile:     p,
		ContactInfo: GeneratedContact(p.Name, p.Company),
		CompanyData: model.UnknownCompany(),
		Score:       scorer.BasicScore(p, e.jitter),
		Basic:       true,
		EnrichedAt:  now,
	}
	lead.BuyingSignals = signals.Generate(lead, now)
	return lead
}

// GeneratedContact returns the pattern-guessed contact used when no email
// finder matched.
func GeneratedContact(name, company string) model.ContactInfo {
	return model.ContactInfo{
		Email:           GenerateEmail(name, company),
		EmailConfidence: GeneratedConfidence,
		EmailSource:     GeneratedSource,
	}
}

// GenerateEmail guesses first.last@company.com, e.g. "Jane Doe" at
// "Acme Inc." gives "jane.doe@acme.com".
func GenerateEmail(name, company string) string {
	if name == "" || company == "" {
		return UnknownEmail
	}
	names := strings.Split(strings.ToLower(normalize.Fold(name)), " ")
	first, last := names[0], names[len(names)-1]

	base := nonAlnum.ReplaceAllString(strings.ToLower(normalize.Fold(company)), "")
	base = legalTokens.ReplaceAllString(base, "")
	return first + "." + last + "@" + base + ".com"
}
