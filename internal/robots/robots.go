// Package robots parses robots.txt files into user-agent groups so callers can
// ask which crawlers a site addresses and what each of them may fetch.
package robots

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

// Maximum size of robots.txt to parse (1MB)
const maxRobotsTxtSize = 1 * 1024 * 1024

// Group is one block of rules shared by consecutive User-agent lines.
type Group struct {
	Agents     []string
	Allow      []string
	Disallow   []string
	CrawlDelay time.Duration
}

// File is a parsed robots.txt.
type File struct {
	Groups   []Group
	Sitemaps []string
}

// Parse parses robots.txt content from a reader. On a read error the
// groups parsed so far are returned along with the error.
func Parse(reader io.Reader) (*File, error) {
	// Limit reading to prevent memory exhaustion from malicious robots.txt
	scanner := bufio.NewScanner(io.LimitReader(reader, maxRobotsTxtSize))
	scanner.Buffer(make([]byte, 0, 64*1024), maxRobotsTxtSize)
	file := &File{}
	var current *Group
	inRules := false

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			// A user-agent line after rules starts a new group
			if current == nil || inRules {
				file.Groups = append(file.Groups, Group{})
				current = &file.Groups[len(file.Groups)-1]
				inRules = false
			}
			if value != "" {
				current.Agents = append(current.Agents, value)
			}

		case "disallow":
			if current != nil {
				inRules = true
				if value != "" {
					current.Disallow = append(current.Disallow, value)
				}
			}

		case "allow":
			if current != nil {
				inRules = true
				if value != "" {
					current.Allow = append(current.Allow, value)
				}
			}

		case "crawl-delay":
			if current != nil {
				inRules = true
				var delay float64
				if _, err := fmt.Sscanf(value, "%f", &delay); err == nil {
					current.CrawlDelay = time.Duration(delay * float64(time.Second))
				}
			}

		case "sitemap":
			// Sitemap directives are global and do not end a group
			if value != "" {
				file.Sitemaps = append(file.Sitemaps, value)
			}
		}
	}

	// The groups read before a failure are still returned.
	if err := scanner.Err(); err != nil {
		return file, fmt.Errorf("reading robots.txt: %w", err)
	}

	return file, nil
}

// ParseString parses robots.txt content held in memory.
func ParseString(body string) *File {
	// Reading from memory cannot fail short of an oversized line, and the
	// partial file is still usable then.
	file, _ := Parse(strings.NewReader(body))
	return file
}

// Mentions reports whether any group names the agent explicitly.
// The wildcard group does not count as a mention.
func (f *File) Mentions(agent string) bool {
	return f.groupFor(agent, false) != nil
}

// Blocked reports whether the agent's own group disallows the site root.
// Agents that are not mentioned explicitly are never reported as blocked.
func (f *File) Blocked(agent string) bool {
	group := f.groupFor(agent, false)
	if group == nil {
		return false
	}
	return !group.allows("/")
}

// IsAllowed checks if the given path is allowed for the agent, falling back
// to the wildcard group when the agent has no group of its own.
func (f *File) IsAllowed(agent, urlPath string) bool {
	group := f.groupFor(agent, true)
	if group == nil {
		return true
	}
	if urlPath == "" {
		urlPath = "/"
	}
	return group.allows(urlPath)
}

// CrawlDelay returns the crawl delay that applies to the agent.
func (f *File) CrawlDelay(agent string) time.Duration {
	if group := f.groupFor(agent, true); group != nil {
		return group.CrawlDelay
	}
	return 0
}

func (f *File) groupFor(agent string, wildcard bool) *Group {
	var fallback *Group
	for i := range f.Groups {
		for _, name := range f.Groups[i].Agents {
			if name == "*" {
				if fallback == nil {
					fallback = &f.Groups[i]
				}
				continue
			}
			if strings.EqualFold(name, agent) {
				return &f.Groups[i]
			}
		}
	}
	if wildcard {
		return fallback
	}
	return nil
}

// allows applies longest-match precedence between Allow and Disallow,
// with Allow winning ties.
func (g *Group) allows(urlPath string) bool {
	best, allowed := -1, true
	for _, pattern := range g.Disallow {
		if matchesPath(urlPath, pattern) && len(pattern) > best {
			best, allowed = len(pattern), false
		}
	}
	for _, pattern := range g.Allow {
		if matchesPath(urlPath, pattern) && len(pattern) >= best {
			best, allowed = len(pattern), true
		}
	}
	return allowed
}

// matchesPath checks if a URL path matches a robots.txt path pattern.
// Supports wildcards per Google's robots.txt specification:
// - * matches any sequence of characters
// - $ matches end of URL path
// - Patterns are matched against URL path (case-sensitive)
func matchesPath(urlPath, robotsPath string) bool {
	if robotsPath == "" {
		return false
	}

	if strings.HasSuffix(robotsPath, "$") {
		pattern := strings.TrimSuffix(robotsPath, "$")
		if strings.Contains(pattern, "*") {
			return matchWildcard(urlPath, pattern, true)
		}
		return urlPath == pattern
	}

	if strings.Contains(robotsPath, "*") {
		return matchWildcard(urlPath, robotsPath, false)
	}

	return strings.HasPrefix(urlPath, robotsPath)
}

// matchWildcard matches a path against a pattern with wildcards.
// exactEnd means the pattern must match the end of urlPath ($ anchor).
func matchWildcard(urlPath, pattern string, exactEnd bool) bool {
	parts := strings.Split(pattern, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(urlPath[pos:], part)
		if idx == -1 || (i == 0 && idx != 0) {
			return false
		}
		pos += idx + len(part)
	}

	if exactEnd {
		// A trailing * lets the pattern swallow the rest of the path
		return pos == len(urlPath) || strings.HasSuffix(pattern, "*")
	}
	return true
}
