package output_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"

	"github.com/tyemirov/dirtree/internal/commands"
	"github.com/tyemirov/dirtree/internal/filter"
	"github.com/tyemirov/dirtree/internal/output"
	"github.com/tyemirov/dirtree/internal/types"
)

const virtualRootDirectory = "/virtual/root"

func newProjectFileSystem(testingHandle *testing.T, directories []string, files []string) billy.Filesystem {
	testingHandle.Helper()
	fileSystem := memfs.New()
	if err := fileSystem.MkdirAll("root", 0o755); err != nil {
		testingHandle.Fatalf("mkdir root: %v", err)
	}
	rootFileSystem, chrootErr := fileSystem.Chroot("root")
	if chrootErr != nil {
		testingHandle.Fatalf("chroot: %v", chrootErr)
	}
	for _, directory := range directories {
		if err := rootFileSystem.MkdirAll(directory, 0o755); err != nil {
			testingHandle.Fatalf("mkdir %s: %v", directory, err)
		}
	}
	for _, file := range files {
		handle, createErr := rootFileSystem.Create(file)
		if createErr != nil {
			testingHandle.Fatalf("create %s: %v", file, createErr)
		}
		if closeErr := handle.Close(); closeErr != nil {
			testingHandle.Fatalf("close %s: %v", file, closeErr)
		}
	}
	return rootFileSystem
}

func render(testingHandle *testing.T, format string, fileSystem billy.Filesystem, maxDepth int, options filter.Options) string {
	testingHandle.Helper()
	var buffer bytes.Buffer
	renderer, rendererErr := output.NewRenderer(format, &buffer)
	if rendererErr != nil {
		testingHandle.Fatalf("NewRenderer failed: %v", rendererErr)
	}
	streamErr := commands.StreamTree(commands.TreeStreamOptions{
		Root:       virtualRootDirectory,
		FileSystem: fileSystem,
		MaxDepth:   maxDepth,
		Filter:     filter.NewConfiguration(options),
	}, renderer)
	if streamErr != nil {
		testingHandle.Fatalf("StreamTree failed: %v", streamErr)
	}
	return buffer.String()
}

func TestPlainTextRendererScenarios(t *testing.T) {
	fileSystem := newProjectFileSystem(t, []string{"A", "src/pkg", ".git/objects"}, []string{"b.txt", "a.txt"})
	nestedFileSystem := newProjectFileSystem(t, []string{"src/pkg", "docs"}, []string{"src/pkg/util.go", "src/main.go", "README.md"})

	testCases := []struct {
		name       string
		fileSystem billy.Filesystem
		maxDepth   int
		options    filter.Options
		expected   string
	}{
		{
			name:       "depth_zero_header_only",
			fileSystem: fileSystem,
			maxDepth:   0,
			expected:   "root/\n",
		},
		{
			name:       "sorted_siblings",
			fileSystem: newProjectFileSystem(t, []string{"A"}, []string{"b.txt", "a.txt"}),
			maxDepth:   2,
			expected:   "root/\n├── A/\n├── a.txt\n└── b.txt\n",
		},
		{
			name:       "glob_leaves_directory_only",
			fileSystem: newProjectFileSystem(t, []string{"A"}, []string{"b.txt", "a.txt"}),
			maxDepth:   2,
			options:    filter.Options{IgnoreGlobs: []string{"*.txt"}},
			expected:   "root/\n└── A/\n",
		},
		{
			name:       "nested_prefixes",
			fileSystem: nestedFileSystem,
			maxDepth:   3,
			expected: strings.Join([]string{
				"root/",
				"├── docs/",
				"├── src/",
				"│   ├── pkg/",
				"│   │   └── util.go",
				"│   └── main.go",
				"└── README.md",
				"",
			}, "\n"),
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := render(t, types.FormatPlain, testCase.fileSystem, testCase.maxDepth, testCase.options)
			if actual != testCase.expected {
				t.Fatalf("unexpected output:\n%s\nwant:\n%s", actual, testCase.expected)
			}
		})
	}
}

func TestPlainTextRendererHidesDefaultIgnoredNamesAtAnyDepth(t *testing.T) {
	fileSystem := newProjectFileSystem(t, []string{"pkg/__pycache__", "pkg/deep/.venv", ".idea"}, []string{"pkg/deep/mod.pyc", "pkg/deep/mod.py"})
	actual := render(t, types.FormatPlain, fileSystem, 10, filter.Options{})
	for _, hidden := range []string{"__pycache__", ".venv", ".idea", "mod.pyc"} {
		if strings.Contains(actual, hidden) {
			t.Fatalf("expected %s to be hidden:\n%s", hidden, actual)
		}
	}
	if !strings.Contains(actual, "mod.py\n") {
		t.Fatalf("expected mod.py in output:\n%s", actual)
	}
}

func TestRenderersAreIdempotent(t *testing.T) {
	fileSystem := newProjectFileSystem(t, []string{"a/b/c", "d"}, []string{"a/x.txt", "d/y.txt", "z.txt"})
	for _, format := range []string{types.FormatPlain, types.FormatMarkdown} {
		first := render(t, format, fileSystem, 4, filter.Options{})
		second := render(t, format, fileSystem, 4, filter.Options{})
		if first != second {
			t.Fatalf("%s output differs between runs", format)
		}
	}
}

func TestMarkdownRendererOutput(t *testing.T) {
	fileSystem := newProjectFileSystem(t, []string{"A"}, []string{"A/inner.txt", "b<c>.txt"})
	actual := render(t, types.FormatMarkdown, fileSystem, 2, filter.Options{})
	expected := strings.Join([]string{
		"<details><summary>root/</summary>",
		"    <details><summary>├── A/</summary>",
		"        <details><summary>&nbsp;&nbsp;&nbsp;&nbsp;└── inner.txt</summary></details>",
		"    </details>",
		"    <details><summary>└── b&lt;c&gt;.txt</summary></details>",
		"</details>",
		"",
	}, "\n")
	if actual != expected {
		t.Fatalf("unexpected markdown:\n%s\nwant:\n%s", actual, expected)
	}
}

func TestMarkdownRendererBalancesTags(t *testing.T) {
	fileSystem := newProjectFileSystem(t, []string{"a/b/c/d", "e/f"}, []string{"a/b/c/d/g.txt", "e/h.txt", "i.txt"})
	for _, maxDepth := range []int{0, 1, 2, 3, 6} {
		actual := render(t, types.FormatMarkdown, fileSystem, maxDepth, filter.Options{})
		opening := strings.Count(actual, "<details>")
		closing := strings.Count(actual, "</details>")
		if opening != closing {
			t.Fatalf("depth %d: %d opening tags, %d closing tags\n%s", maxDepth, opening, closing, actual)
		}
		lines := strings.Split(strings.TrimSuffix(actual, "\n"), "\n")
		if !strings.HasPrefix(lines[0], "<details><summary>root/") || lines[len(lines)-1] != "</details>" {
			t.Fatalf("depth %d: root block not matched:\n%s", maxDepth, actual)
		}
	}
}

func TestNewRendererRejectsUnknownFormat(t *testing.T) {
	if _, err := output.NewRenderer("xml", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if !output.IsSupportedFormat("Markdown") || output.IsSupportedFormat("json") {
		t.Fatalf("unexpected format support")
	}
}

func TestPlainTextRendererEventContract(t *testing.T) {
	var buffer bytes.Buffer
	renderer := output.NewPlainTextRenderer(&buffer)
	events := []commands.TreeEvent{
		{Kind: commands.TreeEventRoot, Entry: types.Entry{Name: "/", IsDirectory: true}},
		{Kind: commands.TreeEventEntry, Entry: types.Entry{Name: "etc", IsDirectory: true}, Depth: 1},
		{Kind: commands.TreeEventLeaveDirectory, Entry: types.Entry{Name: "etc", IsDirectory: true}, Depth: 1},
		{Kind: commands.TreeEventEntry, Entry: types.Entry{Name: "link"}, Depth: 1, IsLast: true},
		{Kind: commands.TreeEventDone},
	}
	for _, event := range events {
		if err := renderer.Handle(event); err != nil {
			t.Fatalf("handle failed: %v", err)
		}
	}
	if expected := "/\n├── etc/\n└── link\n"; buffer.String() != expected {
		t.Fatalf("unexpected output %q want %q", buffer.String(), expected)
	}
}
