/*
Package session tracks which workbook each client session operates on and
serializes access to workbook files.

Every read-modify-write of a workbook runs under a per-path lock. Locks are
reference counted so entries for idle workbooks are garbage collected, and
an optional ports.Locker (e.g. Redis) extends the lock across replicas that
share a file system.
*/
package session
