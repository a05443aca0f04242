// Package modules implements RLVM's standard operation library: the
// Jmp (far-call/gosub), Mem (bulk integer-bank manipulation), Str
// (string handling), and Sys (wait/timing) modules, each a
// machine.Module of machine.Operation registrations.
//
// Module numbers follow the source's two modtype spaces: modtype 0 is
// the flow-control space (Jmp's farcall/gosub/rtl/ret share it with the
// Goto family scenario.Parse already classifies directly), modtype 1 is
// the general operation space (Mem module 11, Str module 10, Sys module
// 4 — Sys's module number is not attested in the retrieved source and is
// this package's own assignment).
package modules
