/*
Package domain contains the core models shared by the tweak registry, the host
GUI adapters and the code generator.

It is kept free of I/O and of any GUI dependency, following the same hexagonal
split as the rest of the module: the registry owns storage, hosts only see
numeric handles through the ports package.

# Key Entities

  - Kind: The numeric kinds a drag control can edit (integers and floats).
  - Key: The stable registry key of a group record or of a single variable.
  - Frame: A snapshot of what a host rendered (windows, rows, values).
  - Hooks: Callbacks fired on cell initialisation, renders, edits and poisoning.
*/
package domain
