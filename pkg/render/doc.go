// Package render turns extracted code graphs into images and diagram text.
//
// # Overview
//
// This package holds what all renderers share:
//
//   - The kind palette ([Color], [Legend]) used for node fills
//   - Format conversion from SVG to PDF/PNG ([ToPDF], [ToPNG])
//   - Format names accepted by the pipeline and API ([Formats])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Renderers
//
// The [nodelink] subpackage draws graphs with Graphviz, pinning nodes at the
// positions computed during extraction. The [mermaid] subpackage emits
// Mermaid flowchart text for embedding in Markdown.
//
// [nodelink]: github.com/matzehuels/codeviz/pkg/render/nodelink
// [mermaid]: github.com/matzehuels/codeviz/pkg/render/mermaid
package render
