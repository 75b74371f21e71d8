// Copyright 2024 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package typeinfo contains the reflection code of sqlclause. It discovers the
columns declared in the `db` tags of entity structs, and enumerates the fields
of patch values in declaration order. As much as possible, reflection code is
limited to this package.
*/
package typeinfo
