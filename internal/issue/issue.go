// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"

	"github.com/charmbracelet/glamour"
)

// Id identifies an entry in the issue catalog.
//
//nolint:revive // Id matches the catalog's established naming
type Id int

const (
	GameNotFoundId Id = iota + 1
	CatalogUnavailableId
	RateLimitedId
	ArchiveNotSupportedId
	ConfigLoadFailedId
	PermissionDeniedId
	GameNotDiscoveredId
	DownloadFailedId
)

type (
	// MarkdownMsg is catalog text rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation or external reference.
	//
	//nolint:revive // HttpLink matches the catalog's established naming
	HttpLink string

	// Issue is a catalog entry: help text shown after a failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the unrendered help text.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the entry for a terminal. stylePath is a glamour style
// name such as "dark" or "light", or a path to a style file.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- " + string(link) + "\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	gameNotFoundIssue = &Issue{
		id: GameNotFoundId,
		mdMsg: `
# Anno 1800 installation not found!

No configured source returned a directory containing ` + "`Bin/Win64/Anno1800.exe`" + `.

## Things you can try:
- Point annoload at the installation directly in your config file:
~~~cue
game: path: "C:/Program Files (x86)/Ubisoft/Ubisoft Game Launcher/games/Anno 1800"
~~~
- Add your Steam library folders:
~~~cue
game: steam_libraries: ["D:/SteamLibrary"]
~~~
- Add other directories to probe:
~~~cue
game: search_paths: ["E:/Games/Anno 1800"]
~~~`,
	}

	catalogUnavailableIssue = &Issue{
		id: CatalogUnavailableId,
		mdMsg: `
# Could not reach the mod loader release catalog!

The GitHub releases API did not answer with a usable release list.
The mod loader is retried on the next activation.

## Things you can try:
- Check your network connection
- Verify ` + "`catalog.base_url`" + ` in your config file
- Run ` + "`annoload releases`" + ` to see what the catalog returns`,
		extLinks: []HttpLink{"https://github.com/xforce/anno1800-mod-loader/releases"},
	}

	rateLimitedIssue = &Issue{
		id: RateLimitedId,
		mdMsg: `
# GitHub API rate limit exceeded!

Unauthenticated requests are limited to 60 per hour.

## Things you can try:
- Set a GitHub token for a higher limit:
~~~
$ export GITHUB_TOKEN=ghp_...
~~~
- Wait for the limit to reset and retry`,
		extLinks: []HttpLink{"https://docs.github.com/en/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	archiveNotSupportedIssue = &Issue{
		id: ArchiveNotSupportedId,
		mdMsg: `
# No installer accepts this archive!

Every registered installer declined the archive's file list.
The mod loader package is recognized by containing both
` + "`python35.dll`" + ` and ` + "`python35_ubi.dll`" + `.

## Things you can try:
- List the archive contents and check the file names
- Run ` + "`annoload classify <archive>`" + ` to see the decision`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The config file could not be parsed or does not match the schema.

## Things you can try:
- Check the CUE syntax of your config file
- Show where annoload looks for it:
~~~
$ annoload config path
~~~
- Recreate a default config:
~~~
$ annoload config init
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

annoload could not write into the game directory.

## Things you can try:
- Make sure the game's ` + "`mods`" + ` and ` + "`Bin/Win64`" + ` folders are writable by your user
- Avoid installing the game under a protected system directory`,
	}

	gameNotDiscoveredIssue = &Issue{
		id: GameNotDiscoveredId,
		mdMsg: `
# Game was activated before it was discovered!

The loader's install location is derived from the discovered game path,
and no path was recorded for the activated game.

## Things you can try:
- Run ` + "`annoload activate`" + ` which discovers the game first
- Check ` + "`annoload status`" + ` for the recorded path`,
	}

	downloadFailedIssue = &Issue{
		id: DownloadFailedId,
		mdMsg: `
# Mod loader download failed!

The release asset could not be downloaded. Nothing was installed;
the next activation retries.

## Things you can try:
- Check your network connection
- Download the archive manually and run:
~~~
$ annoload install loader.zip
~~~`,
	}

	issues = map[Id]*Issue{
		gameNotFoundIssue.Id():        gameNotFoundIssue,
		catalogUnavailableIssue.Id():  catalogUnavailableIssue,
		rateLimitedIssue.Id():         rateLimitedIssue,
		archiveNotSupportedIssue.Id(): archiveNotSupportedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
		gameNotDiscoveredIssue.Id():   gameNotDiscoveredIssue,
		downloadFailedIssue.Id():      downloadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
