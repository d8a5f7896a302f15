package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/paintapp/internal/style"
	"github.com/example/paintapp/internal/theme"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if skipLine(line) {
			continue
		}

		// Handle Sections
		if section, ok := sectionName(line); ok {
			currentSection = section
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		key, value, ok := splitPair(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "style":
			err = setStyleField(&cfg.Style, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "history":
			err = setHistoryField(&cfg.History, key, value)
		case currentSection == "server":
			err = setServerField(&cfg.Server, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: error in %s: %w", lineNo, sectionLabel(currentSection), err)
		}
	}

	return cfg, scanner.Err()
}

// ParseStyle reads brush settings on top of base. It accepts either a bare
// list of "field = value" lines or a full config file, in which case only the
// [style] section is used. base is returned unchanged on error.
func ParseStyle(r io.Reader, base style.Style) (style.Style, error) {
	scanner := bufio.NewScanner(r)
	next := base
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if skipLine(line) {
			continue
		}
		if s, ok := sectionName(line); ok {
			section = s
			continue
		}
		if section != "" && section != "style" {
			continue
		}
		key, value, ok := splitPair(line)
		if !ok {
			continue
		}
		if err := setStyleField(&next, key, value); err != nil {
			return base, err
		}
	}
	if err := scanner.Err(); err != nil {
		return base, err
	}
	return next, nil
}

func skipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

func sectionName(line string) (string, bool) {
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		return strings.TrimSpace(line[1 : len(line)-1]), true
	}
	return "", false
}

func sectionLabel(section string) string {
	if section == "" {
		return "root section"
	}
	return "section [" + section + "]"
}

// splitPair parses "Key = Value" or "Key: Value".
func splitPair(line string) (string, string, bool) {
	var key, value string
	var ok bool
	if strings.Contains(line, "=") {
		key, value, ok = strings.Cut(line, "=")
	} else {
		key, value, ok = strings.Cut(line, ":")
	}
	if !ok {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	// Remove quotes if present
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		value = value[1 : len(value)-1]
	}
	return strings.TrimSpace(key), value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "style_file":
		cfg.StyleFile = value
	}
	return nil
}

func setStyleField(s *style.Style, key, value string) error {
	field, err := style.ParseField(key)
	if err != nil {
		return err
	}
	next, err := style.Apply(*s, style.Update{Field: field, Value: value})
	if err != nil {
		return err
	}
	*s = next
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	switch strings.ToLower(key) {
	case "width":
		return parsePositive(key, value, &c.Width)
	case "height":
		return parsePositive(key, value, &c.Height)
	}
	return nil
}

func setHistoryField(h *History, key, value string) error {
	if strings.ToLower(key) != "limit" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid limit %q: must be a non-negative integer", value)
	}
	h.Limit = n
	return nil
}

func setServerField(s *Server, key, value string) error {
	switch strings.ToLower(key) {
	case "addr", "address", "listen":
		s.Addr = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch strings.ToLower(key) {
	case "save":
		return parseBool(key, value, &n.Save)
	case "copy":
		return parseBool(key, value, &n.Copy)
	case "load":
		return parseBool(key, value, &n.Load)
	case "title":
		n.Title = value
	case "save_text":
		n.SaveText = value
	case "copy_text":
		n.CopyText = value
	case "load_text":
		n.LoadText = value
	case "thumbnail":
		return parsePositive(key, value, &n.Thumbnail)
	}
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parsePositive(key, value string, dst *int) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
	}
	*dst = n
	return nil
}
