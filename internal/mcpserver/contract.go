package mcpserver

// SettingsFormatContract describes the settings blob and how rules are
// evaluated, for LLM consumers that edit or reason about navigation groups.
const SettingsFormatContract = `# filenav Settings Format

Settings are one JSON object. Groups hold ordered rules; rule order is priority.

## Structure

` + "```" + `json
{
  "groups": [
    {
      "id": "5b0c6c1e-...",
      "name": "Journal",
      "rules": [
        {
          "id": "9d2f...",
          "filterType": "folder",
          "filterValue": "Journal",
          "sortType": "created",
          "sortDirection": "asc"
        },
        {
          "id": "a1b2...",
          "filterType": "property",
          "filterValue": "",
          "propertyKey": "status",
          "propertyValue": "done",
          "sortType": "frontmatter",
          "sortDirection": "desc",
          "sortKey": "due",
          "sortValueType": "date"
        }
      ]
    }
  ]
}
` + "```" + `

## Filters

- ` + "`tag`" + `: leading ` + "`#`" + ` is ignored, case-insensitive. Matches inline tags and the
  frontmatter ` + "`tags`" + ` field (list, or comma/space separated string). Empty matches everything.
- ` + "`folder`" + `: the folder and all its subfolders; ` + "`Projects`" + ` does not match
  ` + "`ProjectsArchive`" + `. Case-insensitive. Empty matches everything.
- ` + "`property`" + `: ` + "`propertyKey`" + ` must be present in frontmatter. When ` + "`propertyValue`" + `
  is non-empty the value must equal it exactly. An empty key matches nothing.

## Sorting

- ` + "`created`" + `, ` + "`modified`" + `: file timestamps.
- ` + "`filename`" + `: full path, ignoring case and accents.
- ` + "`frontmatter`" + `: value of ` + "`sortKey`" + ` read as ` + "`string`" + `, ` + "`number`" + ` or
  ` + "`date`" + `. Documents without a usable value sort first.
- ` + "`desc`" + ` reverses the ascending order.

## Navigation

The first rule whose candidates contain the active document decides the result;
later rules are never consulted.

- ` + "`next`" + ` / ` + "`previous`" + `: neighbour in that list, no wrap-around.
- ` + "`latest`" + `: last element for ` + "`asc`" + `, first for ` + "`desc`" + `.
- ` + "`oldest`" + `: first element for ` + "`asc`" + `, last for ` + "`desc`" + `.

Command ids are ` + "`filenav:group-<groupId>-<direction>`" + ` and stay stable across renames.
`
