/*
Package ports defines the driven ports (interfaces) of the keepaway solver.

These interfaces decouple the solver from external implementations, allowing
answers to be cached in memory or in Redis and computations to be coordinated
across replicas.

# Key Interfaces

  - AnswerCache: Stores finished results keyed by input digest and mode.
  - DistributedLocker: Provides distributed locking so one replica computes a given answer.
*/
package ports
