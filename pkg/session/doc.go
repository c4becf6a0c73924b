/*
Package session implements the resumable session lifecycle on top of a storage substrate.

A Store owns one slot and exposes the operations the owning workflow needs:

  - Save: stamp savedAt/version and overwrite the slot (last writer wins).
  - Load: return the snapshot only if it decodes, matches CurrentVersion, is younger
    than the expiry and shows progress; anything else is evicted and reported absent.
  - Clear: drop the slot.
  - Exists: the same version/expiry check as Load, without eviction.
  - Summarize: the display triple for a resume prompt.

Storage failures never propagate as faults: reads degrade to "absent" and writes
return an error wrapping domain.ErrStorageUnavailable that callers may ignore.

A Manager keys one Store per workflow identifier for hosts that resume several
workflows at once.
*/
package session
