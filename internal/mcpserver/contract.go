package mcpserver

// PostFormatContract describes the canonical post format that LLM consumers
// should follow when creating or updating posts.
const PostFormatContract = `# Post Format Contract

Every blog post MUST follow this structure.

## Structure

` + "```" + `markdown
---
layout: "post"
title: "Human-readable title"
date: "2025-01-15"
categories: ["essays"]
tags: ["go", "blogging"]
excerpt: "One-sentence summary shown in listings."
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **Front matter is mandatory for posts.** The ` + "`" + `---` + "`" + ` fences must be the
   first thing in the file (no leading blank lines).
2. **` + "`" + `title` + "`" + ` is required.** The post filename is derived from it and the
   date: ` + "`" + `posts/_posts_YYYY-MM-DD-slug.md` + "`" + `. The slug keeps lowercase
   Latin letters, digits and CJK characters; everything else becomes a hyphen.
3. **Values are strings or string arrays.** Scalars are double-quoted;
   arrays use the inline ` + "`" + `["a", "b"]` + "`" + ` form. No nested structures.
4. **` + "`" + `date` + "`" + ` is ` + "`" + `YYYY-MM-DD` + "`" + `.** It defaults to today when omitted.
5. **The stored path never changes on update**, even when the title does —
   published links must keep working.
6. **Standalone pages** live at the repository root (e.g. ` + "`" + `about.md` + "`" + `),
   use ` + "`" + `layout: "page"` + "`" + ` and may omit front matter entirely.
7. **Encoding** is UTF-8 with a trailing newline.

## Media

- Upload images via the ` + "`" + `upload_media` + "`" + ` tool. It returns a
  ` + "`" + `markdownImage` + "`" + ` field ready to paste into the post body.
- Images are stored under ` + "`" + `assets/images/` + "`" + ` with a timestamp prefix.
- Reference them by absolute path: ` + "`" + `![description](/assets/images/...)` + "`" + `.

## Example

` + "```" + `markdown
---
layout: "post"
title: "Shipping the redesign"
date: "2025-01-20"
categories: ["work"]
tags: ["design", "launch"]
excerpt: "What changed and why."
---

# Shipping the redesign

The new layout went live today.

![Before and after](/assets/images/1737350400000-redesign.png)
` + "```" + `
`
