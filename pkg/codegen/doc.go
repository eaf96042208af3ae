/*
Package codegen generates Go declarations of tweak groups and variables from a
YAML declaration file.

	package: hud
	window: Debug
	groups:
	  - name: health_bar
	    vars:
	      - left: f32 = 0.0
	      - { name: width, type: float32, init: 100 }
	vars:
	  - speed: i32 = 3

Each group becomes a record type TweakGroup<Name> and a Show<Name> function
rendering its window. Standalone vars get an accessor TweakVar<Name> and are
rendered together by ShowVars in the window named by the file.

Types accept Go names (float32, int64) and short names (f32, i64, u8, usize).
Every declaration failure is reported, not only the first.
*/
package codegen
