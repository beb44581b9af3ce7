package mcpserver

// NoteFormatContract documents the canonical on-disk note format. It is
// served both as the zettel://note-format resource and through the
// zk_get_note_contract tool so that clients can produce files the parser
// round-trips without loss.
const NoteFormatContract = `# Note Format Contract

Every note is a single Markdown file named ` + "`<id>.md`" + ` in a flat
vault directory. The id is assigned by the server: a 14-digit timestamp
(YYYYMMDDHHMMSS) followed by a 3-digit counter, e.g.
` + "`20260828142233000`" + `.

## Layout

` + "```markdown" + `
---
id: "20260828142233000"
title: My note title
note_type: permanent
tags:
    - zettelkasten
    - example
created: 2026-08-28T14:22:33Z
updated: 2026-08-28T14:22:33Z
---

# My note title

Body text in plain Markdown.

## Links

- reference: 20260828142234001 optional description text
- extends: 20260828142235002
` + "```" + `

## Rules

- The YAML frontmatter is mandatory and delimited by ` + "`---`" + ` lines.
- ` + "`note_type`" + ` is required and one of: fleeting, literature,
  permanent, structure, hub. Notes created through the server default to
  permanent.
- ` + "`created`" + ` and ` + "`updated`" + ` are RFC 3339 timestamps.
- The first body line repeats the title as an H1 heading.
- The file ends with a ` + "`## Links`" + ` section listing one link per
  line as ` + "`- <type>: <target-id> [description]`" + `; with no links
  the heading stands alone. Valid types: reference, refines, refined_by,
  extends, extended_by, contradicts, contradicted_by, supports,
  supported_by, questions, questioned_by, related. A final ` + "`## Links`" + `
  heading followed by anything other than list items is read as body
  text, not as the section.
- A link is identified by (source, target, type); repeating the same
  line is a no-op.
- Files are the source of truth. The SQLite index is derived and can be
  rebuilt from the files at any time with zk_rebuild_index.
`
