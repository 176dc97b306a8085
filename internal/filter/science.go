// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

// Package filter classifies post text as science-flavored or not. The
// classifier checks post text for research keywords and for links to a
// curated list of scientific publishers, preprint servers and repositories.
// It is used to optionally narrow like sets to scientific content before
// similarity scoring.
package filter

import (
	"net/url"
	"regexp"
	"strings"
)

// scientificDomains lists domains whose links mark a post as scientific.
// A URL matches when its host equals a listed domain or is a subdomain of one.
var scientificDomains = []string{
	// Preprint servers
	"arxiv.org", "biorxiv.org", "medrxiv.org", "chemrxiv.org", "psyarxiv.org",
	"eartharxiv.org", "socarxiv.org", "osf.io", "preprints.org", "ssrn.com",
	"econstor.eu",

	// Major publishers
	"nature.com", "science.org", "sciencemag.org", "cell.com", "pnas.org",
	"springer.com", "link.springer.com", "wiley.com", "onlinelibrary.wiley.com",
	"tandfonline.com", "sciencedirect.com", "elsevier.com", "academic.oup.com",
	"oup.com", "oxfordjournals.org", "journals.sagepub.com", "sagepub.com",
	"bmj.com", "nejm.org", "acs.org", "pubs.acs.org", "rsc.org", "pubs.rsc.org",
	"ieee.org", "ieeexplore.ieee.org", "frontiersin.org", "mdpi.com",
	"plos.org", "journals.plos.org", "jamanetwork.com", "thelancet.com",
	"annualreviews.org", "jstor.org", "acm.org", "dl.acm.org", "hindawi.com",
	"emerald.com", "worldscientific.com", "liebertpub.com",

	// University publishers
	"cambridge.org", "press.princeton.edu", "press.uchicago.edu",
	"hup.harvard.edu", "mitpress.mit.edu", "sup.org",

	// Open access and institutional repositories
	"zenodo.org", "figshare.com", "doaj.org", "elifesciences.org",
	"biomedcentral.com", "jmir.org",

	// National institutions and databases
	"nih.gov", "ncbi.nlm.nih.gov", "pubmed.ncbi.nlm.nih.gov",
	"pmc.ncbi.nlm.nih.gov", "cdc.gov", "nist.gov", "nasa.gov", "osti.gov",
	"aip.org", "aps.org", "ams.org",

	// Identifiers and research tools
	"doi.org", "handle.net", "researchgate.net", "academia.edu", "scopus.com",
	"webofscience.com", "semanticscholar.org", "orcid.org",

	// Field-specific repositories
	"repec.org", "dblp.org", "inspirehep.net", "spie.org", "computer.org",
	"projecteuclid.org", "geoscienceworld.org",

	// Society publishers
	"agu.org", "asme.org", "asce.org", "asm.org", "geosociety.org",
	"ametsoc.org", "royalsociety.org", "royalsocietypublishing.org",
	"aaas.org",

	// Country-specific journals
	"cnki.net", "csiro.au", "jstage.jst.go.jp", "scielo.org", "cairn.info",

	// Medical journals and databases
	"jci.org", "annals.org", "medscape.com",

	// Citation managers
	"mendeley.com", "zotero.org", "paperpile.com", "overleaf.com",
}

// scienceKeywords match research-flavored post text.
var scienceKeywords = []string{
	`\bscience\b`,
	`\bresearch\b`,
	`\bstudy\b`,
	`\bexperiment\b`,
	`\bdata\b`,
	`\bphd\b`,
	`\bpublication\b`,
	`\bscientific\b`,
}

var (
	urlPattern = regexp.MustCompile(`https?://\S+`)
	doiPattern = regexp.MustCompile(`doi\.org/10\.\d{4,9}/[-._;()/:A-Za-z0-9]+`)

	// paperPathPatterns match URL paths that look like scholarly articles
	// even on unlisted domains.
	paperPathPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/pdf/[^/]+\.pdf$`),
		regexp.MustCompile(`/doi/(?:abs|full|pdf)/10\.\d{4,9}/`),
		regexp.MustCompile(`/article/\d+`),
		regexp.MustCompile(`/content/\d+/\d+/\w+`),
		regexp.MustCompile(`/science/article/pii/\w+`),
		regexp.MustCompile(`/pmid/\d+`),
		regexp.MustCompile(`/pmc/articles/PMC\d+`),
		regexp.MustCompile(`/abstract/\d+`),
		regexp.MustCompile(`/full/\d+`),
	}
)

// Classifier decides whether post text is scientific. The zero value is not
// usable; construct with New.
type Classifier struct {
	domains    map[string]struct{}
	keywordsRE *regexp.Regexp
}

// New builds a Classifier with the built-in domain and keyword lists plus
// any extras from configuration.
func New(extraDomains, extraKeywords []string) *Classifier {
	domains := make(map[string]struct{}, len(scientificDomains)+len(extraDomains))
	for _, d := range scientificDomains {
		domains[d] = struct{}{}
	}
	for _, d := range extraDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains[d] = struct{}{}
		}
	}

	patterns := make([]string, 0, len(scienceKeywords)+len(extraKeywords))
	patterns = append(patterns, scienceKeywords...)
	for _, kw := range extraKeywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			patterns = append(patterns, `\b`+regexp.QuoteMeta(strings.ToLower(kw))+`\b`)
		}
	}

	return &Classifier{
		domains:    domains,
		keywordsRE: regexp.MustCompile(`(?i)` + strings.Join(patterns, "|")),
	}
}

// IsScientific reports whether the post text contains research keywords or
// links to a scientific domain.
func (c *Classifier) IsScientific(text string) bool {
	if text == "" {
		return false
	}
	if c.keywordsRE.MatchString(text) {
		return true
	}
	for _, u := range urlPattern.FindAllString(text, -1) {
		if c.IsScientificURL(u) {
			return true
		}
	}
	return false
}

// IsScientificURL reports whether a single URL points at scientific content.
func (c *Classifier) IsScientificURL(raw string) bool {
	if doiPattern.MatchString(raw) {
		return true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	host = strings.TrimPrefix(host, "www.")

	if _, ok := c.domains[host]; ok {
		return true
	}
	for d := range c.domains {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}

	for _, p := range paperPathPatterns {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}
