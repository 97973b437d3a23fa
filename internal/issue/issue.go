// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a class of launch failure.
type Id int

const (
	StagingFailedId Id = iota + 1
	RuntimeArchiveInvalidId
	PathTraversalId
	ReservedNameId
	PayloadWriteFailedId
	EntryPointNotFoundId
	LaunchFailedId
	ManifestInvalidId
)

type (
	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a reference shown under "See also".
	HttpLink string

	// Issue is a catalog entry describing one failure class.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

// Title is a one-line summary suitable for log lines.
func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the full message including links.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the message for a terminal using the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	stagingFailedIssue = &Issue{
		id:    StagingFailedId,
		title: "could not create the staging directory",
		mdMsg: `
# The launcher could not create its working directory

The runtime is unpacked into a fresh directory under the system temporary
directory on every start. Creating that directory failed.

## Things you can try
- Check that the temporary directory exists and is writable (` + "`%TEMP%`" + ` on Windows, ` + "`$TMPDIR`" + ` elsewhere)
- Free some disk space
- Check that security software is not blocking the launcher`,
		extLinks: []HttpLink{"https://pkg.go.dev/os#MkdirTemp"},
	}

	runtimeArchiveInvalidIssue = &Issue{
		id:    RuntimeArchiveInvalidId,
		title: "the embedded runtime archive is damaged or missing",
		mdMsg: `
# The embedded runtime could not be read

The Java runtime bundled inside the launcher is not a valid ZIP or tar.gz
archive. This usually means the launcher was built without its payloads.

## Things you can try
- Rebuild the payload and the launcher:
~~~
$ jarstub-pack runtime path/to/jre -o cmd/jarstub/payload/runtime.zip
$ go build -tags embed_payload ./cmd/jarstub
~~~
- Inspect the archive before embedding it:
~~~
$ jarstub-pack inspect cmd/jarstub/payload/runtime.zip
~~~`,
	}

	pathTraversalIssue = &Issue{
		id:    PathTraversalId,
		title: "a runtime archive entry points outside the staging directory",
		mdMsg: `
# The runtime archive contains an unsafe path

An entry name is absolute or climbs out of the staging directory with ` + "`..`" + `.
Extraction stopped before writing it.

## Things you can try
- Repack the runtime from a plain directory with ` + "`jarstub-pack runtime`" + `
- Run ` + "`jarstub-pack inspect`" + ` to list the offending entries`,
		extLinks: []HttpLink{"https://security.snyk.io/research/zip-slip-vulnerability"},
	}

	reservedNameIssue = &Issue{
		id:    ReservedNameId,
		title: "a runtime archive entry uses a reserved Windows device name",
		mdMsg: `
# The runtime archive contains a name Windows cannot create

Names such as ` + "`CON`, `NUL` or `LPT1`" + ` are reserved on Windows, with or
without an extension.

## Things you can try
- Rename the file in the runtime tree and repack it`,
		docLinks: []HttpLink{"https://learn.microsoft.com/windows/win32/fileio/naming-a-file"},
	}

	payloadWriteFailedIssue = &Issue{
		id:    PayloadWriteFailedId,
		title: "the application could not be written to disk",
		mdMsg: `
# The application payload could not be written

The runtime was unpacked but writing the application archive next to it failed.

## Things you can try
- Free some disk space
- Check that security software is not quarantining the file`,
	}

	entryPointNotFoundIssue = &Issue{
		id:    EntryPointNotFoundId,
		title: "no runtime executable was found after extraction",
		mdMsg: `
# No Java executable was found

After unpacking, no directory contained ` + "`bin/java`" + ` (` + "`bin\\java.exe`" + ` on
Windows) with execute permission.

## Things you can try
- Check the runtime layout:
~~~
$ jarstub-pack inspect cmd/jarstub/payload/runtime.zip
~~~
- Set ` + "`entrypoint.policy: \"fixed\"`" + ` and ` + "`entrypoint.subdir`" + ` in ` + "`launcher.cue`" + `
  when the runtime lives in a known directory`,
	}

	launchFailedIssue = &Issue{
		id:    LaunchFailedId,
		title: "the runtime process could not be started",
		mdMsg: `
# The Java runtime could not be started

The executable was found but the operating system refused to start it.

## Things you can try
- Make sure the runtime matches this machine's operating system and architecture
- Check that security software is not blocking executables in the temporary directory`,
	}

	manifestInvalidIssue = &Issue{
		id:    ManifestInvalidId,
		title: "the launcher manifest is invalid",
		mdMsg: `
# The launcher manifest is invalid

` + "`launcher.cue`" + ` did not validate against the manifest schema.

## Things you can try
- Regenerate a default manifest:
~~~
$ jarstub-pack manifest -o cmd/jarstub/payload/launcher.cue
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	issues = map[Id]*Issue{
		stagingFailedIssue.Id():         stagingFailedIssue,
		runtimeArchiveInvalidIssue.Id(): runtimeArchiveInvalidIssue,
		pathTraversalIssue.Id():         pathTraversalIssue,
		reservedNameIssue.Id():          reservedNameIssue,
		payloadWriteFailedIssue.Id():    payloadWriteFailedIssue,
		entryPointNotFoundIssue.Id():    entryPointNotFoundIssue,
		launchFailedIssue.Id():          launchFailedIssue,
		manifestInvalidIssue.Id():       manifestInvalidIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	all := maps.Values(issues)
	slices.SortFunc(all, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return all
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
