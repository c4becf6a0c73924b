/*
Package ports defines the driven ports (interfaces) for the session engine.

These interfaces decouple the session lifecycle from the durable storage it runs
on, allowing the same validation and expiry policy to work over memory, files,
Redis, or SQLite.

# Key Interfaces

  - Substrate: Raw get/set/remove of string values by key, plus an availability probe.
  - Lister: Optional capability to enumerate stored keys, used by multi-session tooling.
*/
package ports
