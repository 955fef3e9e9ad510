/*
Package domain contains the core data model of the keepaway simulation.

It defines the agents that pass items between each other, the closed set of
transform operations they apply, the run modes and the errors surfaced when a
definition cannot be simulated. This package is kept pure and free of external
dependencies like I/O or persistence.

# Key Entities

  - Definition: The validated input for one agent (items, transform, divisor, successors).
  - Operation: A closed sum type of {add, subtract, multiply, divide} over a literal or the item itself.
  - Agent: The mutable runtime record of one agent (queue and inspection counter).
  - Mode: The two fixed call shapes, bounded (20 rounds, dampener 3) and unbounded (10000 rounds, dampener 1).
  - Result: The outcome of a completed run.
*/
package domain
