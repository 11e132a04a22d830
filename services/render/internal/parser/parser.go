package parser

import (
	"encoding/json"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"shenanigigs/common/errors"
	"shenanigigs/services/render/internal/models"

	"github.com/google/uuid"
)

const source = "hackernews"

type RawJobPosting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PostedAt    time.Time `json:"posted_at"`
	RawText     string    `json:"raw_text"`
	ParentID    int       `json:"parent_id"`
}

var (
	companyPattern    = regexp.MustCompile(`(?i)(company|at):\s*([^,|\n]+)`)
	locationPattern   = regexp.MustCompile(`(?i)(location):\s*([^|\n]+)`)
	titlePattern      = regexp.MustCompile(`(?i)(position|role|title):\s*([^,|\n]+)`)
	salaryPattern     = regexp.MustCompile(`([$€£])\s?(\d+(?:,\d{3})*(?:\.\d+)?)\s?([Kk]\b)?(?:\s*(?:-|to)\s*[$€£]?\s?(\d+(?:,\d{3})*(?:\.\d+)?)\s?([Kk]\b)?)?`)
	remotePattern     = regexp.MustCompile(`(?i)(remote|wfh|work[- ]from[- ]home)`)
	onsitePattern     = regexp.MustCompile(`(?i)\b(onsite|on-site|in[- ]office)\b`)
	techStackPattern  = regexp.MustCompile(`(?i)(tech stack|technologies|skills):\s*([^|\n]+)`)
	experiencePattern = regexp.MustCompile(`(?i)(experience|yoe|years):\s*([^,|\n]+)`)
	urlPattern        = regexp.MustCompile(`https?://[^\s|<>"')]+`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	blankLinesPattern = regexp.MustCompile(`\n\s*\n`)
	spacePattern      = regexp.MustCompile(`\s+`)
	dashPattern       = regexp.MustCompile(`[\x{2013}\x{2014}\x{2015}]`)
	parenPattern      = regexp.MustCompile(`\([^)]*\)`)
)

var currencies = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
}

var periodPatterns = []struct {
	pattern *regexp.Regexp
	period  models.CompensationPeriod
}{
	{regexp.MustCompile(`(?i)(/\s?(hr|hour)\b|per hour|hourly)`), models.PeriodHourly},
	{regexp.MustCompile(`(?i)(/\s?day\b|per day|daily rate)`), models.PeriodDaily},
	{regexp.MustCompile(`(?i)(/\s?(wk|week)\b|per week|weekly)`), models.PeriodWeekly},
	{regexp.MustCompile(`(?i)(/\s?(mo|month)\b|per month|monthly)`), models.PeriodMonthly},
	{regexp.MustCompile(`(?i)(/\s?(yr|year)\b|per year|annual|yearly)`), models.PeriodYearly},
}

var employmentPatterns = []struct {
	pattern *regexp.Regexp
	value   string
}{
	{regexp.MustCompile(`(?i)\bfull[- ]?time\b`), "FULL_TIME"},
	{regexp.MustCompile(`(?i)\bpart[- ]?time\b`), "PART_TIME"},
	{regexp.MustCompile(`(?i)\b(contract|contractor|freelance)\b`), "CONTRACTOR"},
	{regexp.MustCompile(`(?i)\b(temporary|temp)\b`), "TEMPORARY"},
	{regexp.MustCompile(`(?i)\b(intern|interns|internship)\b`), "INTERN"},
	{regexp.MustCompile(`(?i)\bvolunteer\b`), "VOLUNTEER"},
	{regexp.MustCompile(`(?i)\bper[- ]diem\b`), "PER_DIEM"},
}

type techPattern struct {
	name    string
	pattern *regexp.Regexp
}

var commonTech = compileTech(
	"python", "javascript", "typescript", "java", "golang", "ruby", "php",
	"react", "angular", "vue", "node", "django", "flask", "spring",
	"aws", "azure", "gcp", "kubernetes", "docker", "terraform",
	"sql", "mongodb", "postgresql", "mysql", "redis",
)

func compileTech(names ...string) []techPattern {
	out := make([]techPattern, len(names))
	for i, name := range names {
		out[i] = techPattern{name: name, pattern: regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)}
	}
	return out
}

func generateUUIDFromID(id string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	uuid := uuid.NewSHA1(namespace, []byte(id))
	return uuid.String()
}

// ParseJobPosting turns one raw "who is hiring" comment into a posting. The
// conventional "Company | Location | Role | ..." header is read first; labelled
// fields in the description fill whatever it leaves empty.
func ParseJobPosting(rawData string) (*models.JobPosting, error) {
	var raw RawJobPosting
	if err := json.Unmarshal([]byte(rawData), &raw); err != nil {
		return nil, errors.InvalidInput("decoding raw job posting", err)
	}
	if raw.ID == "" {
		return nil, errors.InvalidInput("raw job posting has no id", nil)
	}

	text := raw.RawText
	if text == "" {
		text = raw.Description
	}
	plain := plainText(text)
	plainDescription := plainText(raw.Description)

	headerParts := strings.Split(normalizeText(firstLine(plain)), " | ")

	company := ""
	location := ""
	title := ""
	if len(headerParts) > 1 {
		company = strings.TrimSpace(headerParts[0])
		location = strings.TrimSpace(headerParts[1])
	}
	if len(headerParts) > 2 {
		title = strings.TrimSpace(headerParts[2])
	}

	if title == "" {
		if matches := titlePattern.FindStringSubmatch(plainDescription); len(matches) > 2 {
			title = strings.TrimSpace(matches[2])
		}
	}
	if title == "" {
		title = strings.TrimSpace(raw.Title)
	}

	if company == "" {
		if matches := companyPattern.FindStringSubmatch(plainDescription); len(matches) > 2 {
			company = strings.TrimSpace(matches[2])
		}
	}

	if location == "" {
		if matches := locationPattern.FindStringSubmatch(plainDescription); len(matches) > 2 {
			location = strings.TrimSpace(matches[2])
		}
	}
	locality, region, country := splitLocation(location)

	compMin, compMax, currency := extractCompensation(plain)
	period := models.PeriodUnknown
	if compMin > 0 || compMax > 0 {
		period = extractPeriod(plain)
	}

	remotePolicy := models.RemoteUnknown
	if strings.Contains(strings.ToLower(location), "remote") || remotePattern.MatchString(plain) {
		remotePolicy = models.RemoteOnly
	} else if onsitePattern.MatchString(plain) {
		remotePolicy = models.RemoteOnsite
	}

	return &models.JobPosting{
		ID:                   generateUUIDFromID(raw.ID),
		SourceID:             raw.ID,
		Title:                title,
		Company:              company,
		CompanyURL:           urlPattern.FindString(plain),
		Location:             location,
		Locality:             locality,
		Region:               region,
		Country:              country,
		Description:          raw.Description,
		Technologies:         extractTechnologies(plain),
		ExperienceLevel:      extractExperienceLevel(title + "\n" + plain),
		EmploymentTypes:      extractEmploymentTypes(plain),
		CompensationMin:      compMin,
		CompensationMax:      compMax,
		CompensationCurrency: currency,
		CompensationPeriod:   period,
		RemotePolicy:         remotePolicy,
		Source:               source,
		PostedAt:             raw.PostedAt,
		RawData:              rawData,
	}, nil
}

func plainText(text string) string {
	text = tagPattern.ReplaceAllString(text, "\n")
	return html.UnescapeString(text)
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

func normalizeText(text string) string {
	text = blankLinesPattern.ReplaceAllString(text, "\n")
	text = spacePattern.ReplaceAllString(text, " ")
	text = dashPattern.ReplaceAllString(text, "-")
	return strings.TrimSpace(text)
}

// splitLocation reads "City", "City, Region" or "City, Region, Country".
// Work-arrangement words such as "Remote" are not places and are skipped.
func splitLocation(location string) (locality, region, country string) {
	var parts []string
	location = parenPattern.ReplaceAllString(location, "")
	for _, part := range strings.Split(location, ",") {
		part = strings.TrimSpace(part)
		switch strings.ToLower(part) {
		case "", "remote", "onsite", "on-site", "hybrid":
			continue
		}
		parts = append(parts, part)
	}

	switch len(parts) {
	case 0:
	case 1:
		locality = parts[0]
	case 2:
		locality, region = parts[0], parts[1]
	default:
		locality, region, country = parts[0], parts[1], parts[len(parts)-1]
	}
	return locality, region, country
}

// extractCompensation reads the first salary figure or range. A "k" on
// either end of a range applies to both: "$120-150k" is 120000-150000.
func extractCompensation(text string) (minAmount, maxAmount float64, currency string) {
	matches := salaryPattern.FindStringSubmatch(dashPattern.ReplaceAllString(text, "-"))
	if len(matches) < 6 {
		return 0, 0, ""
	}

	currency = currencies[matches[1]]
	minSuffix, maxSuffix := matches[3], matches[5]
	if matches[4] != "" {
		if minSuffix == "" {
			minSuffix = maxSuffix
		}
		if maxSuffix == "" {
			maxSuffix = minSuffix
		}
	}

	minAmount = parseAmount(matches[2], minSuffix)
	maxAmount = minAmount
	if matches[4] != "" {
		maxAmount = parseAmount(matches[4], maxSuffix)
	}
	return minAmount, maxAmount, currency
}

func parseAmount(digits, suffix string) float64 {
	amount := parseFloat(strings.ReplaceAll(digits, ",", ""))
	if suffix != "" {
		amount *= 1000
	}
	return amount
}

func extractPeriod(text string) models.CompensationPeriod {
	for _, p := range periodPatterns {
		if p.pattern.MatchString(text) {
			return p.period
		}
	}
	return models.PeriodYearly
}

func extractEmploymentTypes(text string) []string {
	var types []string
	for _, p := range employmentPatterns {
		if p.pattern.MatchString(text) {
			types = append(types, p.value)
		}
	}
	return types
}

func extractTechnologies(text string) []string {
	var technologies []string

	if matches := techStackPattern.FindStringSubmatch(text); len(matches) > 2 {
		techText := matches[2]
		technologies = strings.Split(techText, ",")
	}

	textLower := strings.ToLower(text)
	for _, tech := range commonTech {
		if tech.pattern.MatchString(textLower) {
			technologies = append(technologies, tech.name)
		}
	}

	seen := make(map[string]bool)
	var result []string

	for _, tech := range technologies {
		tech = strings.ToLower(strings.TrimSpace(tech))
		if tech != "" && !seen[tech] {
			seen[tech] = true
			result = append(result, tech)
		}
	}

	return result
}

func extractExperienceLevel(text string) string {
	if matches := experiencePattern.FindStringSubmatch(text); len(matches) > 2 {
		exp := strings.ToLower(matches[2])
		if strings.Contains(exp, "senior") || strings.Contains(exp, "sr") || strings.Contains(exp, "5+") {
			return "Senior"
		} else if strings.Contains(exp, "junior") || strings.Contains(exp, "jr") || strings.Contains(exp, "entry") {
			return "Junior"
		} else if strings.Contains(exp, "mid") || strings.Contains(exp, "intermediate") {
			return "Mid-Level"
		}
	}

	text = strings.ToLower(text)
	if strings.Contains(text, "senior") || strings.Contains(text, "sr.") || strings.Contains(text, "lead") {
		return "Senior"
	} else if strings.Contains(text, "junior") || strings.Contains(text, "jr.") || strings.Contains(text, "entry") {
		return "Junior"
	} else if strings.Contains(text, "mid-level") || strings.Contains(text, "intermediate") {
		return "Mid-Level"
	}

	return ""
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
