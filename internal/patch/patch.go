// Package patch loads save patch scripts into catalog commands.
//
// A script is line oriented:
//
//	; comment
//	[Group:Money]          separator row
//	[Max Money]            starts a patch code
//	path:DATA*.BIN         target file; a wildcard mask lists container files
//	write at 0x10:0001869F body lines are kept verbatim in the payload
//
// Lines before the first header are ignored.
package patch

import (
	"log/slog"
	"strings"

	"saveshelf/internal/catalog"
	"saveshelf/internal/logging"
)

// Extension is the file suffix of patch scripts.
const Extension = ".savepatch"

// FileLister returns paths relative to root for files matching mask.
type FileLister func(root, mask string) []string

// Loader appends the commands parsed from script to commands.
type Loader interface {
	Load(script []byte, commands []*catalog.Command, list FileLister, root string) []*catalog.Command
}

// ScriptLoader is the default Loader.
type ScriptLoader struct {
	Logger *slog.Logger
}

// NewScriptLoader returns a loader that logs through logger.
func NewScriptLoader(logger *slog.Logger) *ScriptLoader {
	return &ScriptLoader{Logger: logging.NewComponentLogger(logger, "patch")}
}

const (
	groupPrefix = "Group:"
	pathPrefix  = "path:"
)

type pendingCode struct {
	cmd  *catalog.Command
	mask string
	body []string
}

// Load implements Loader.
func (l *ScriptLoader) Load(script []byte, commands []*catalog.Command, list FileLister, root string) []*catalog.Command {
	logger := l.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	var current *pendingCode
	flush := func() {
		if current == nil {
			return
		}
		current.cmd.Payload = []byte(strings.Join(current.body, "\n"))
		if current.mask != "" && list != nil && strings.ContainsAny(current.mask, "*?") {
			for _, file := range list(root, current.mask) {
				current.cmd.Options = append(current.cmd.Options, catalog.NewOption(file, []byte(current.mask)...))
			}
		}
		commands = append(commands, current.cmd)
		current = nil
	}

	loaded := 0
	for _, raw := range splitLines(string(script)) {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			flush()
			title := strings.TrimSpace(line[1 : len(line)-1])
			if group, ok := strings.CutPrefix(title, groupPrefix); ok {
				commands = append(commands, catalog.NewSeparator(strings.TrimSpace(group)))
				continue
			}
			current = &pendingCode{cmd: &catalog.Command{Label: title, Opcode: catalog.OpPatchCode}}
			loaded++
			continue
		}
		if current == nil {
			continue
		}
		if mask, ok := strings.CutPrefix(line, pathPrefix); ok {
			current.mask = strings.TrimSpace(mask)
		}
		current.body = append(current.body, line)
	}
	flush()

	logger.Debug("patch codes loaded", logging.Int("codes", loaded), logging.String("root", root))
	return commands
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
