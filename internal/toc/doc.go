// Package toc builds and customizes the table-of-contents tree of a page.
//
// Build turns a flat heading list into nested ordered lists. Transform then
// restyles those lists as unordered lists and wraps them in a navigation
// container with a "Table of Contents" header:
//
//	<nav class="toc-container mt-5">
//	  <div class="toc-header">Table of Contents</div>
//	  <ul class="toc-level toc-level-1">...</ul>
//	</nav>
//
// Both steps operate on freshly built trees owned by the caller and keep no
// state, so independent pages may be processed concurrently.
package toc
