// Package steam locates a game's PCK archive across installed Steam
// libraries. Discovery is best-effort: the first existing candidate wins.
package steam

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// FindPCK searches every known Steam library for
// steamapps/common/<gameDir>/<pckName> and returns the first hit.
func FindPCK(gameDir, pckName string) (string, bool) {
	for _, steamRoot := range rootCandidates() {
		for _, libRoot := range libraryRoots(steamRoot) {
			candidate := filepath.Join(libRoot, "steamapps", "common", gameDir, pckName)
			if isFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

// rootCandidates returns likely Steam install directories for this OS,
// deduplicated and filtered to existing directories.
func rootCandidates() []string {
	var candidates []string

	switch runtime.GOOS {
	case "windows":
		if root, ok := rootFromRegistry(); ok {
			candidates = append(candidates, root)
		}
		// Fallbacks for typical installs.
		candidates = append(candidates,
			`C:\Program Files (x86)\Steam`,
			`C:\Program Files\Steam`)
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, "Library/Application Support/Steam"))
		}
	default:
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates,
				filepath.Join(home, ".local/share/Steam"),
				filepath.Join(home, ".steam/steam"))
		}
	}

	return dedupDirs(candidates)
}

// libraryRoots returns the Steam install dir itself plus every library
// folder listed in steamapps/libraryfolders.vdf.
func libraryRoots(steamRoot string) []string {
	roots := []string{steamRoot}

	vdfPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	if content, err := os.ReadFile(vdfPath); err == nil {
		roots = append(roots, parseLibraryFolders(string(content))...)
	}

	return dedupDirs(roots)
}

// parseLibraryFolders extracts library paths from libraryfolders.vdf.
// It understands the current format ("path" "D:\\SteamLibrary") and the old
// one where the key is a bare library number.
func parseLibraryFolders(content string) []string {
	var paths []string

	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := parseQuotedPair(line)
		if !ok {
			continue
		}

		if strings.EqualFold(key, "path") {
			if value != "" {
				paths = append(paths, value)
			}
			continue
		}

		// Old Steam format: "1"  "D:\\SteamLibrary"
		if isAllDigits(key) && looksLikePath(value) {
			paths = append(paths, value)
		}
	}

	return paths
}

// parseQuotedPair parses a line containing two quoted strings: "key" "value".
// Backslash escapes inside quotes take the next character verbatim, matching
// VDF's escaping of backslashes and quotes.
func parseQuotedPair(line string) (key, value string, ok bool) {
	var parts []string
	for i := 0; i < len(line) && len(parts) < 2; i++ {
		if line[i] != '"' {
			continue
		}

		var out strings.Builder
		i++
		for ; i < len(line); i++ {
			switch line[i] {
			case '\\':
				if i+1 < len(line) {
					i++
					out.WriteByte(line[i])
				}
			case '"':
				goto closed
			default:
				out.WriteByte(line[i])
			}
		}
	closed:
		parts = append(parts, out.String())
	}

	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// looksLikePath is deliberately permissive; false positives are filtered by
// the directory check in dedupDirs.
func looksLikePath(value string) bool {
	return strings.HasPrefix(value, "/") ||
		strings.HasPrefix(value, `\\`) ||
		strings.Contains(value, `:\`) ||
		strings.Contains(value, ":/")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dedupDirs drops duplicates and anything that is not an existing directory.
// Paths compare case-insensitively on Windows.
func dedupDirs(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var out []string
	for _, p := range paths {
		if !isDir(p) {
			continue
		}
		key := p
		if runtime.GOOS == "windows" {
			key = strings.ToLower(p)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// rootFromRegistry asks the Windows registry for the Steam install path by
// shelling out to reg.exe, avoiding a Windows-only dependency.
func rootFromRegistry() (string, bool) {
	queries := [][2]string{
		{`HKCU\Software\Valve\Steam`, "SteamPath"},
		{`HKCU\Software\Valve\Steam`, "InstallPath"},
		{`HKLM\SOFTWARE\WOW6432Node\Valve\Steam`, "InstallPath"},
		{`HKLM\SOFTWARE\Valve\Steam`, "InstallPath"},
	}

	for _, q := range queries {
		if path, ok := regQueryString(q[0], q[1]); ok {
			normalized := strings.ReplaceAll(strings.TrimSpace(path), "/", `\`)
			if normalized != "" {
				return normalized, true
			}
		}
	}
	return "", false
}

// regQueryString runs `reg query <key> /v <value>` and extracts the data
// column. Expected line shape: <ValueName> <Type> <Data...>.
func regQueryString(key, value string) (string, bool) {
	out, err := exec.Command("reg", "query", key, "/v", value).Output()
	if err != nil {
		return "", false
	}

	for line := range strings.Lines(string(out)) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, value) {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 3 {
			continue
		}
		// Data may contain spaces; join everything after the type column.
		return strings.Join(fields[2:], " "), true
	}
	return "", false
}
