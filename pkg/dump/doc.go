// Package dump reads the "C Arrays" text export of a followed stream.
//
// A dump looks like this:
//
//	char peer0_0[] = { /* Packet 4 */
//	0xf3, 0x02, 0x00, 0x01,
//	0x00, 0x00 };
//	char peer1_0[] = { /* Packet 5 */
//	0xf3, 0x03 };
//
// Every peer marker line contributes the peer number as a tag byte, literal
// lines contribute their values and the closing brace ends the packet.
package dump
