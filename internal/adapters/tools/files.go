package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"github.com/bnema/agent-cli/internal/domain"
	"github.com/bnema/agent-cli/internal/policy"
)

const msgPathRejected = "Error: path is outside the workspace or contains disallowed elements."

// Files exposes read_file, write_file and list_files confined to
// Workspace. Handlers operate on the resolved path returned by the policy
// check so a symlink cannot be swapped in between check and use.
type Files struct {
	Workspace string
}

type readFileArgs struct {
	Path string `json:"path"`
}

type writeFileArgs struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type listFilesArgs struct {
	Path string `json:"path"`
}

type listEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (f *Files) Tools() []Tool {
	return []Tool{
		{
			Name:        "read_file",
			Description: "Read a text file inside the workspace.",
			Parameters: objectSchema([]string{"path"}, map[string]any{
				"path": stringProperty("File path relative to the workspace"),
			}),
			Handler: f.Read,
		},
		{
			Name:        "write_file",
			Description: "Write content to a file inside the workspace. Parent directories are created as needed.",
			Parameters: objectSchema([]string{"path", "content"}, map[string]any{
				"path":    stringProperty("File path relative to the workspace"),
				"content": stringProperty("Content to write"),
			}),
			Handler: f.Write,
		},
		{
			Name:        "list_files",
			Description: "List files and directories in a workspace folder.",
			Parameters: objectSchema(nil, map[string]any{
				"path": stringProperty("Directory relative to the workspace, the workspace root by default"),
			}),
			Handler: f.List,
		},
	}
}

func (f *Files) Read(_ context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args readFileArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}

	resolved, ok := policy.ResolveInRoot(args.Path, f.Workspace)
	if !ok {
		return msgPathRejected
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Sprintf("File not found: %s", args.Path)
		}
		return fmt.Sprintf("Read error: %v", err)
	}

	mtype := mimetype.Detect(data)
	if !isText(mtype) {
		return fmt.Sprintf("Binary file not shown: %s (%s, %d bytes)", args.Path, mtype.String(), len(data))
	}

	return strings.ToValidUTF8(string(data), "�")
}

func (f *Files) Write(_ context.Context, exec domain.Execution, raw json.RawMessage) string {
	var args writeFileArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}

	chars := utf8.RuneCountInString(args.Content)
	if exec.DryRun {
		return fmt.Sprintf("[DRY-RUN] Would write %d characters to %s. Run without --dry-run to apply.", chars, args.Path)
	}

	resolved, ok := policy.ResolveInRoot(args.Path, f.Workspace)
	if !ok {
		return msgPathRejected
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Sprintf("Write error: %v", err)
	}
	if err := os.WriteFile(resolved, []byte(args.Content), 0o644); err != nil {
		return fmt.Sprintf("Write error: %v", err)
	}

	return fmt.Sprintf("Wrote %d characters to %s", chars, args.Path)
}

func (f *Files) List(_ context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args listFilesArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}
	if strings.TrimSpace(args.Path) == "" {
		args.Path = "."
	}

	resolved, ok := policy.ResolveInRoot(args.Path, f.Workspace)
	if !ok {
		return msgPathRejected
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return fmt.Sprintf("Not a directory: %s", args.Path)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	listing := make([]listEntry, 0, len(entries))
	for _, entry := range entries {
		kind := "file"
		if isDirEntry(resolved, entry) {
			kind = "dir"
		}
		listing = append(listing, listEntry{Name: entry.Name(), Type: kind})
	}

	return encodeJSON(listing)
}

func isDirEntry(dir string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}

	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.IsDir()
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
