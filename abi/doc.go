/*
Package abi provides an implementation of the Ethereum contract ABI type system.

See https://docs.soliditylang.org/en/latest/abi-spec.html for the encoding rules.


Basic Operations

This package can parse ABI type names using the `abi.TypeOf()` function.

`abi.TypeOf()` returns an `abi.Type` struct. The `abi.Encode` and `abi.Decode` functions
convert between `abi.Value` variants and encoded ABI byte strings.

A `abi.Function` describes a contract method. Its `Selector()` is the first four bytes of the
Keccak-256 hash of the canonical signature, e.g. `balanceOf(address)` -> `0x70a08231`.
*/
package abi
