// SPDX-License-Identifier: MIT

// Package network holds the static topology of a power network and the
// per-interval dispatch state that drives contingency screening.
//
// What:
//
//   - Bus, Branch (AC lines and transformers as one indexed set), DCLink,
//     Device, Shunt, Contingency and Interval descriptions.
//   - Network: an immutable, validated model with UID → index tables built
//     once at construction. Everything downstream works on dense indices.
//   - State: the dynamic inputs of one interval (switch states, phase
//     shifts, device/shunt/DC-link injections, pre-contingency reactive flow).
//
// Conventions:
//
//   - Buses are numbered 0..NumBus()-1 in declaration order; bus 0 is the
//     angle reference.
//   - A branch carries +1 incidence at From and -1 at To.
//   - Producers inject positive real power, consumers and shunts withdraw.
//   - A DC link withdraws its flow at From and injects it at To.
//
// Errors:
//
//   - ErrNoBuses, ErrDuplicateUID, ErrBusOutOfRange, ErrSelfLoop,
//     ErrBadSusceptance, ErrBadRating, ErrUnknownBranch, ErrUnknownUID,
//     ErrStateShape, ErrNaNInf, ErrIntervalOutOfRange.
//
// These are input contract errors: they are raised while constructing or
// validating the model, before any screening runs.
package network
