// Package core contains the authenticated request pipeline, its session
// lifecycle, credential resolution, key-case conversion and the normalized
// error type. Domain packages depend on the API contract defined here; core
// must not depend on transport or domain packages.
package core
