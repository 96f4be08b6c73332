/*
Package eyelid implements privacy-preserving iris matching: two iris
bit templates are compared by their Hamming distance under the YASHE
homomorphic encryption scheme, so that neither template is ever
revealed in the clear. The templates are encoded as elements of a
negacyclic polynomial ring and one homomorphic multiplication yields a
ciphertext whose decryption exposes only the distances needed for the
match decision.
*/
package eyelid
