/*
Package ports defines the driven ports (interfaces) between the tweak registry
and the immediate-mode GUI that hosts it.

The registry never talks to a concrete toolkit. A host adapts its drawing
context to Context and UI, and edits values only through the Value handles the
registry passes to DragValue.

# Key Interfaces

  - Context: The per-frame drawing context; opens titled windows.
  - UI: Layout and widget primitives available inside a window.
  - Value: A read-write numeric handle bound to registry storage.
*/
package ports
