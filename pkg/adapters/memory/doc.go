/*
Package memory provides a headless immediate-mode host for the tweak registry.

Context records the layout of every window it is asked to draw and applies
scripted drags on the following frame, which makes it the backing host for
tests and for the remote (HTTP, MCP) panels.
*/
package memory
