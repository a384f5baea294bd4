package auth

import (
	"fmt"
	"strings"
)

type AccessLevel int

const (
	Public AccessLevel = iota
	ApiKey
	Authenticated
	AdminOnly
)

func (l AccessLevel) String() string {
	switch l {
	case Public:
		return "public"
	case ApiKey:
		return "api_key"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin_only"
	}
	return fmt.Sprintf("AccessLevel(%d)", int(l))
}

// AnyMethod matches every HTTP method in a Rule.
const AnyMethod = "*"

// Rule binds a method and path pattern to an access level.
//
// Pattern segments are literals, ":name" (exactly one segment) or a final
// "**" (zero or more segments).
type Rule struct {
	Method  string
	Pattern string
	Level   AccessLevel
}

// Route is a registered handler, as reported by the router.
type Route struct {
	Method string
	Path   string
}

type segmentKind int

const (
	segWildcard segmentKind = iota
	segParam
	segLiteral
)

type compiledRule struct {
	Rule
	segments []string
	kinds    []segmentKind
	trailing bool // ends with "**"
}

// RouteClassifier resolves the access level of a request from a static
// table. The most specific matching rule wins; requests no rule matches are
// treated as Authenticated.
type RouteClassifier struct {
	rules []compiledRule
}

func NewRouteClassifier(rules []Rule) (*RouteClassifier, error) {
	c := &RouteClassifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

func compileRule(r Rule) (compiledRule, error) {
	if r.Method == "" {
		r.Method = AnyMethod
	}
	r.Method = strings.ToUpper(r.Method)
	cr := compiledRule{Rule: r}
	segs := splitPath(r.Pattern)
	for i, seg := range segs {
		switch {
		case seg == "**":
			if i != len(segs)-1 {
				return compiledRule{}, fmt.Errorf("pattern %q: ** must be the last segment", r.Pattern)
			}
			cr.trailing = true
		case strings.HasPrefix(seg, ":"):
			cr.segments = append(cr.segments, seg)
			cr.kinds = append(cr.kinds, segParam)
		default:
			cr.segments = append(cr.segments, seg)
			cr.kinds = append(cr.kinds, segLiteral)
		}
	}
	return cr, nil
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Classify returns the access level required for method and path.
func (c *RouteClassifier) Classify(method, path string) AccessLevel {
	if r := c.match(strings.ToUpper(method), splitPath(path)); r != nil {
		return r.Level
	}
	return Authenticated
}

func (c *RouteClassifier) match(method string, segs []string) *compiledRule {
	var best *compiledRule
	for i := range c.rules {
		r := &c.rules[i]
		if r.Method != AnyMethod && r.Method != method {
			continue
		}
		if !r.matches(segs) {
			continue
		}
		if best == nil || r.moreSpecificThan(best) {
			best = r
		}
	}
	return best
}

func (r *compiledRule) matches(segs []string) bool {
	if len(segs) < len(r.segments) {
		return false
	}
	if len(segs) > len(r.segments) && !r.trailing {
		return false
	}
	for i, seg := range r.segments {
		if r.kinds[i] == segLiteral && seg != segs[i] {
			return false
		}
	}
	return true
}

// moreSpecificThan compares two rules matching the same path segment by
// segment: literal beats parameter beats wildcard. Ties go to a rule without
// a trailing wildcard, then to a rule bound to a concrete method.
func (r *compiledRule) moreSpecificThan(o *compiledRule) bool {
	n := len(r.segments)
	if len(o.segments) > n {
		n = len(o.segments)
	}
	for i := 0; i < n; i++ {
		a, b := r.kindAt(i), o.kindAt(i)
		if a != b {
			return a > b
		}
	}
	if r.trailing != o.trailing {
		return !r.trailing
	}
	return r.Method != AnyMethod && o.Method == AnyMethod
}

func (r *compiledRule) kindAt(i int) segmentKind {
	if i < len(r.kinds) {
		return r.kinds[i]
	}
	return segWildcard
}

// Uncovered returns the routes no rule matches explicitly. Route paths are
// matched literally, so "/rsvp/:id" needs a rule with a parameter or wildcard
// in that position.
func (c *RouteClassifier) Uncovered(routes []Route) []Route {
	var missing []Route
	for _, rt := range routes {
		if c.match(strings.ToUpper(rt.Method), splitPath(rt.Path)) == nil {
			missing = append(missing, rt)
		}
	}
	return missing
}

// DefaultRules is the access table of the HTTP API mounted under prefix.
func DefaultRules(prefix string) []Rule {
	p := strings.TrimRight(prefix, "/")
	return []Rule{
		{Method: "POST", Pattern: p + "/auth/login", Level: Public},
		{Method: "POST", Pattern: p + "/auth/signup", Level: ApiKey},
		{Method: "GET", Pattern: p + "/auth/me", Level: Authenticated},

		{Method: "GET", Pattern: p + "/events", Level: Public},
		{Method: "GET", Pattern: p + "/events/:id", Level: Public},
		{Method: "POST", Pattern: p + "/events/create", Level: ApiKey},
		{Method: "PUT", Pattern: p + "/events/:id", Level: Authenticated},
		{Method: "DELETE", Pattern: p + "/events/:id", Level: Authenticated},

		{Method: "POST", Pattern: p + "/rsvp", Level: Authenticated},
		{Method: AnyMethod, Pattern: p + "/rsvp/**", Level: Authenticated},
		{Method: AnyMethod, Pattern: p + "/users/**", Level: Authenticated},

		{Method: AnyMethod, Pattern: p + "/admin/**", Level: AdminOnly},

		{Method: "GET", Pattern: p + "/health", Level: Public},
		{Method: "GET", Pattern: p + "/community/links", Level: Public},
	}
}
